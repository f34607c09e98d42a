package commands

import (
	"github.com/spf13/cobra"

	"github.com/vikasavnish/flowguide/internal/api"
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the API routes",
		Long: `Print every registered API route as METHOD<TAB>PATH, in registration
order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.close()

			router := api.SetupRouter(api.Dependencies{
				Store:    a.store,
				Network:  a.network,
				Services: a.services,
				Auth:     a.auth,
				Logger:   logger,
			})
			return api.PrintRoutes(cmd.OutOrStdout(), router)
		},
	}
}
