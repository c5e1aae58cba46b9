package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chris/journal/config"
	"github.com/chris/journal/internal/companion"
	"github.com/chris/journal/internal/discord"
	"github.com/spf13/cobra"
)

func newChatCmd(verbose *bool) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the bot from the terminal, as if over DMs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger("warn", *verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			out := cmd.OutOrStdout()
			a, err := newApp(cfg, &consoleSender{w: out}, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return chat(cmd.Context(), discord.NewHandler(a.companion, logger), userID, cmd.InOrStdin(), out)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "local", "user id to chat as")
	return cmd
}

// chat feeds stdin lines to h until EOF or exit. A piped stdin gets a single
// exchange per line with no prompt.
func chat(ctx context.Context, h *discord.Handler, userID string, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	interactive := false
	if f, ok := in.(*os.File); ok {
		if stat, err := f.Stat(); err == nil {
			interactive = stat.Mode()&os.ModeCharDevice != 0
		}
	}
	prompt := func() {
		if interactive {
			fmt.Fprint(out, "journal> ")
		}
	}

	scanner := bufio.NewScanner(in)
	prompt()
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "exit" || input == "quit" {
			break
		}
		for _, r := range h.HandleMessage(ctx, userID, input) {
			printReply(out, r.Text, r.Menu)
			if r.File != nil {
				fmt.Fprintf(out, "[attachment %s]\n%s\n", r.File.Name, r.File.Data)
			}
		}
		prompt()
	}
	return scanner.Err()
}

func printReply(w io.Writer, text string, menu *companion.Menu) {
	if text != "" {
		fmt.Fprintln(w, text)
	}
	if menu == nil {
		return
	}
	for _, o := range menu.Options {
		fmt.Fprintf(w, "  %s) %s\n", o.Value, o.Label)
	}
	cmd := "/schedule_day"
	if menu.ID == companion.MenuHour {
		cmd = "/schedule_time"
	}
	fmt.Fprintf(w, "Reply with %s <number>.\n", cmd)
}

// consoleSender prints what the companion would DM.
type consoleSender struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *consoleSender) Send(_ context.Context, _ string, text string, menu *companion.Menu) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	printReply(c.w, text, menu)
	return nil
}
