package main

import (
	"github.com/chris/journal/internal/service"
	"github.com/spf13/cobra"
)

func newServiceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "service", Short: "Manage the launchd service (macOS)"}

	actions := []struct {
		use, short string
		run        func(m *service.Manager) error
	}{
		{"install", "Install the binary and load the service", (*service.Manager).Install},
		{"uninstall", "Unload the service and remove the binary", (*service.Manager).Uninstall},
		{"start", "Start the service", (*service.Manager).Start},
		{"stop", "Stop the service", (*service.Manager).Stop},
		{"restart", "Restart the service", (*service.Manager).Restart},
		{"status", "Show launchd status", (*service.Manager).Status},
		{"logs", "Tail the service logs", (*service.Manager).Logs},
	}
	for _, a := range actions {
		cmd.AddCommand(&cobra.Command{
			Use:   a.use,
			Short: a.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(service.New(cmd.OutOrStdout()))
			},
		})
	}
	return cmd
}
