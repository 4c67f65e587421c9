package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aynalab/chatsync/core"
	"github.com/aynalab/chatsync/export"
	"github.com/aynalab/chatsync/observability"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		c, err := core.New(cfg, core.WithObserver(observability.NoOpObserver{}))
		if err != nil {
			return err
		}
		if err := c.Initialize(cmd.Context()); err != nil {
			return err
		}

		var transcript *export.Transcript
		for _, sess := range c.Sessions() {
			if sess.ID == args[0] {
				transcript = &export.Transcript{
					Session:  sess,
					Messages: c.Messages(sess.ID),
				}
				break
			}
		}
		if transcript == nil {
			return fmt.Errorf("session not found: %s", args[0])
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		w := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return exporter.Export(transcript, w)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, md, yaml")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
