package channel

import (
	"fmt"
	"net/http"
)

// Transport selects a channel implementation.
const (
	TransportWebSocket = "websocket"
	TransportConnect   = "connect"
)

// Config holds channel initialization parameters.
type Config struct {
	Transport string `json:"transport,omitempty"` // "websocket" or "connect".
	URL       string `json:"url,omitempty"`       // Server endpoint; empty disables the channel.
}

// DefaultConfig returns the default channel configuration (WebSocket, no
// endpoint — the channel stays closed until a URL is configured).
func DefaultConfig() Config {
	return Config{Transport: TransportWebSocket}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Transport != "" {
		c.Transport = source.Transport
	}
	if source.URL != "" {
		c.URL = source.URL
	}
}

// NewDialer creates a Dialer from configuration. Returns nil when no URL is
// configured, indicating the realtime channel is disabled: the client then
// runs on local history alone and sends are no-ops.
func NewDialer(cfg *Config) (Dialer, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	switch cfg.Transport {
	case TransportWebSocket, "":
		return WebSocketDialer(cfg.URL), nil
	case TransportConnect:
		return ConnectDialer(http.DefaultClient, cfg.URL), nil
	default:
		return nil, fmt.Errorf("unknown channel transport: %s", cfg.Transport)
	}
}
