package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aynalab/chatsync/core"
	"github.com/aynalab/chatsync/observability"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored chat sessions",
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

		sessions := c.Sessions()
		if len(sessions) == 0 {
			fmt.Println(dimStyle.Render("no sessions"))
			return nil
		}

		active := c.ActiveSession()
		for _, sess := range sessions {
			line := fmt.Sprintf("%s  %s  %s",
				sess.ID,
				sess.Name,
				dimStyle.Render(sess.CreatedAt.Local().Format("2006-01-02 15:04")),
			)
			if active != nil && sess.ID == active.ID {
				line = activeStyle.Render("* ") + line
			} else {
				line = "  " + line
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
