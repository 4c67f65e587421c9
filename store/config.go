package store

import "fmt"

// Backend selects a KV implementation.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds store initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty"` // "file", "sqlite", or "memory".
	Path    string `json:"path,omitempty"`    // FileStore root dir or SQLite database file.
}

// DefaultConfig returns the default store configuration: an in-memory store,
// so an unconfigured client still starts with empty, non-durable state.
func DefaultConfig() Config {
	return Config{Backend: BackendMemory}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// New creates a KV from configuration.
func New(cfg *Config) (KV, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemStore(), nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		return NewFileStore(cfg.Path), nil
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		return OpenSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
