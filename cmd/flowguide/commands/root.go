package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/config"
	"github.com/vikasavnish/flowguide/internal/logging"
)

var (
	cfg        *config.Config
	logger     *zap.Logger
	syncLogger = func() {}
	envFile    string
)

// NewRootCmd creates the flowguide root command with every subcommand
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowguide",
		Short: "FlowGuide household finance demo backend",
		Long: `FlowGuide serves the household finance demo API: transactions, bills,
goals, family members, investments, alerts, reports and the templated
planner, backed by a single persisted demo snapshot.

Examples:
  flowguide serve
  flowguide snapshot --table goals
  flowguide call --to +16087659446`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			syncLogger()
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSnapshotCmd())
	cmd.AddCommand(NewResetCmd())
	cmd.AddCommand(NewRoutesCmd())
	cmd.AddCommand(NewCallCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func loadConfig() error {
	// A missing env file is normal outside development.
	_ = godotenv.Load(envFile)

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	l, cleanup, err := logging.InitializeLogger(loaded.Log)
	if err != nil {
		return err
	}

	cfg, logger, syncLogger = loaded, l, cleanup
	return nil
}
