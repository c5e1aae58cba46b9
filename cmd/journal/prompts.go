package main

import (
	"fmt"
	"os"

	"github.com/chris/journal/internal/journal"
	"github.com/chris/journal/internal/prompts"
	"github.com/spf13/cobra"
)

func newPromptsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "prompts", Short: "Inspect the prompt catalog"}

	var file string
	list := &cobra.Command{
		Use:   "list",
		Short: "List prompts in rotation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				file = os.Getenv("PROMPTS_FILE")
			}
			c, err := prompts.Load(file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, cat := range []journal.Category{journal.SelfAwareness, journal.Connection} {
				items, err := c.Prompts(cat)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s\n", cat.Emoji(), cat.Label())
				for i, p := range items {
					fmt.Fprintf(out, "  %2d. %s\n", i+1, p)
				}
			}
			return nil
		},
	}
	list.Flags().StringVar(&file, "file", "", "catalog YAML (default: PROMPTS_FILE or the built-in catalog)")

	validate := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog file loads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			c, err := prompts.Load(path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d self-awareness, %d connection prompts\n",
				c.Len(journal.SelfAwareness), c.Len(journal.Connection))
			return err
		},
	}

	cmd.AddCommand(list, validate)
	return cmd
}
