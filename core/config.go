package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aynalab/chatsync/channel"
	"github.com/aynalab/chatsync/store"
)

// Config holds initialization parameters for the core's collaborators. Each
// section delegates to that subsystem's config-driven constructor.
type Config struct {
	Store   store.Config   `json:"store"`
	Channel channel.Config `json:"channel"`
}

// DefaultConfig returns a Config with sensible defaults: in-memory storage
// and a disabled channel.
func DefaultConfig() Config {
	return Config{
		Store:   store.DefaultConfig(),
		Channel: channel.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Store.Merge(&source.Store)
	c.Channel.Merge(&source.Channel)
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
