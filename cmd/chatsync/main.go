// Command chatsync is a terminal chat client over the synchronization core:
// named sessions with durable local history, merged with messages arriving
// on a realtime channel.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aynalab/chatsync/core"
)

var (
	configFile string
	dataDir    string
	serverURL  string
	transport  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "chatsync",
	Short: "Session-scoped chat client with durable local history",
	Long: `chatsync maintains multiple named chat sessions, each with a durable
local message history, and exchanges realtime messages over a single
channel scoped to the authenticated user.

Quick start:
  chatsync run --url wss://chat.example.com --user u1   # interactive client
  chatsync sessions --data ~/.chatsync                  # list stored sessions
  chatsync export <session-id> --format md              # export a transcript`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory for durable history (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "Chat server endpoint (overrides config)")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "", "Channel transport: websocket or connect (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// loadConfig resolves the effective config from file defaults and flags.
func loadConfig() (*core.Config, error) {
	cfg := core.DefaultConfig()
	if configFile != "" {
		loaded, err := core.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if dataDir != "" {
		cfg.Store.Backend = "file"
		cfg.Store.Path = dataDir
	}
	if serverURL != "" {
		cfg.Channel.URL = serverURL
	}
	if transport != "" {
		cfg.Channel.Transport = transport
	}
	return &cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
