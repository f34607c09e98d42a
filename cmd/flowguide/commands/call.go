package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vikasavnish/flowguide/internal/calls"
)

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Place an outbound voice call through Twilio",
		Long: `Place an outbound voice call with the configured Twilio credentials
(TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM).

Example:
  flowguide call --to +16087659446`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := calls.NewClient(cfg.Twilio, &http.Client{Timeout: 15 * time.Second})
			call, err := client.Create(cmd.Context(), to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Call initiated: %s (%s)\n", call.SID, call.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination phone number")

	return cmd
}
