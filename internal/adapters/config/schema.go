package config

// Stampfile represents the structure of the stamp.yaml configuration file.
type Stampfile struct {
	Version  string `yaml:"version"`
	Root     string `yaml:"root"`
	Graph    string `yaml:"graph"`
	CacheDir string `yaml:"cache_dir"`
	Salt     string `yaml:"uid_salt"`
	Jobs     int    `yaml:"jobs"`
}

// GraphFile represents the structure of a graph description.
type GraphFile struct {
	Version string            `yaml:"version"`
	Vars    map[string]string `yaml:"vars"`
	Nodes   []NodeDTO         `yaml:"nodes"`
}

// NodeDTO represents a node definition in the graph description.
type NodeDTO struct {
	ID          string    `yaml:"id"`
	Kind        string    `yaml:"kind"`
	Cmd         []string  `yaml:"cmd"`
	Value       string    `yaml:"value"`
	Tag         string    `yaml:"tag"`
	Multimodule bool      `yaml:"multimodule"`
	Fake        bool      `yaml:"fake"`
	Edges       []EdgeDTO `yaml:"edges"`
}

// EdgeDTO represents an outgoing edge of a node.
type EdgeDTO struct {
	To   string `yaml:"to"`
	Kind string `yaml:"kind"`
}
