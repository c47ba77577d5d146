// Package config provides the configuration and graph loaders for stamp.
package config

import (
	"bytes"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// supportedVersion is the only schema version understood by the loaders.
const supportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the configuration file at path and resolves every location in it.
// Relative locations are resolved against the directory holding the file. A missing file
// yields the defaults for that directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}
	dir := filepath.Dir(abs)

	var sf Stampfile
	data, err := os.ReadFile(abs) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		l.logger.Debug("no " + filepath.Base(abs) + " found, using defaults")
	case err != nil:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", abs)
	default:
		if err := decodeStrict(data, &sf); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", abs)
		}
	}

	if err := checkVersion(sf.Version, domain.ErrConfigReadFailed); err != nil {
		return nil, zerr.With(err, "path", abs)
	}
	if sf.Jobs < 0 {
		err := zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, "jobs must not be negative"), "jobs", sf.Jobs)
		return nil, zerr.With(err, "path", abs)
	}

	root := resolve(dir, sf.Root, ".")
	return &domain.Config{
		Root:      root,
		GraphPath: resolve(dir, sf.Graph, domain.DefaultGraphFile),
		CacheDir:  resolve(root, sf.CacheDir, domain.DefaultCacheDir),
		Salt:      sf.Salt,
		Jobs:      sf.Jobs,
	}, nil
}

// resolve returns p relative to base, falling back to def when p is empty.
func resolve(base, p, def string) string {
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func checkVersion(v string, sentinel error) error {
	if v == "" || v == supportedVersion {
		return nil
	}
	return zerr.With(zerr.Wrap(sentinel, "unsupported version"), "version", v)
}

// decodeStrict unmarshals YAML, rejecting unknown fields. An empty document is accepted.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
