package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/bootstrap"
	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/infrastructure/config"
)

// env is what every subcommand needs, loaded once before it runs
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	clients *client.Registry

	logLevel string
}

// Execute runs the CLI with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "analyticsctl",
		Short:         "Operator tools for the analytics backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// stdout carries command output; logs go to stderr
			cfg.Log.Output = "stderr"
			if e.logLevel != "" {
				cfg.Log.Level = e.logLevel
			}
			log, err := bootstrap.Logger(cfg.Log)
			if err != nil {
				return err
			}
			clients, err := bootstrap.Registry(cfg)
			if err != nil {
				return err
			}
			e.cfg, e.log, e.clients = cfg, log, clients
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(clientsCmd(e), reportCmd(e), driveCmd(e))
	return root
}
