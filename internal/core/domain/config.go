package domain

const (
	// DefaultConfigFile is the configuration file looked up in the working directory.
	DefaultConfigFile = "stamp.yaml"
	// DefaultGraphFile is the graph description used when the configuration names none.
	DefaultGraphFile = "graph.yaml"
	// DefaultCacheDir is the cache directory used when the configuration names none.
	DefaultCacheDir = ".stamp"
	// UIDCacheFile is the file name of the uid cache inside the cache directory.
	UIDCacheFile = "uids.cache"
	// SnapshotFile is the file name of the change snapshot inside the cache directory.
	SnapshotFile = "snapshot.msgpack"

	// DirPerm is the permission used for directories created by stamp.
	DirPerm = 0o750
	// FilePerm is the permission used for files created by stamp.
	FilePerm = 0o644
)

// Config is the resolved project configuration.
type Config struct {
	// Root is the directory file identities are relative to.
	Root string
	// GraphPath is the path of the graph description.
	GraphPath string
	// CacheDir is the directory holding the uid cache and the change snapshot.
	CacheDir string
	// Salt is mixed into every command structure fingerprint.
	Salt string
	// Jobs bounds the parallelism of content hashing.
	Jobs int
}
