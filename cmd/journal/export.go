package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/chris/journal/config"
	"github.com/chris/journal/internal/db"
	"github.com/chris/journal/internal/journal"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "export <user-id>",
		Short: "Print a user's journal, oldest entry first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			database, err := db.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer database.Close()

			u, err := database.GetUser(cmd.Context(), args[0])
			if errors.Is(err, journal.ErrUserNotFound) {
				return fmt.Errorf("no journal for user %s", args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				doc, err := journal.ExportJSON(u, time.Now().In(cfg.Location()))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(doc))
				return err
			}
			if len(u.Responses) == 0 {
				_, err = fmt.Fprintln(out, "no entries yet")
				return err
			}
			_, err = fmt.Fprint(out, journal.ExportText(u.Responses, cfg.Location()))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
