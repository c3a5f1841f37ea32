package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List all registered events",
		Args:  cobra.NoArgs,
		RunE:  runEvents,
	}
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	events, err := reg.Events()
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No events registered yet.")
		return nil
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	return WriteEvents(cmd.OutOrStdout(), events, format)
}
