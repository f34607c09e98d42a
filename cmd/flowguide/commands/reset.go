package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the demo store to its seed data",
		Long: `Discard every table in the persisted demo store and write fresh seed
data dated from today.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.close()

			a.store.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Demo store reset")
			return nil
		},
	}
}
