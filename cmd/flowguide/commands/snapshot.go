package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vikasavnish/flowguide/internal/store"
)

// NewSnapshotCmd creates the snapshot command
func NewSnapshotCmd() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the persisted demo store as JSON",
		Long: `Print every table of the persisted demo store, or a single table with
--table. A missing or corrupt store is re-seeded first.

Examples:
  flowguide snapshot
  flowguide snapshot --table bills`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var name store.Table
			if table != "" {
				parsed, err := store.ParseTable(table)
				if err != nil {
					return err
				}
				name = parsed
			}

			a, err := newApp(cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.close()

			var out any = a.store.Snapshot()
			if name != "" {
				rows, err := a.store.GetTable(name)
				if err != nil {
					return err
				}
				out = rows
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "", "Only print this table")

	return cmd
}
