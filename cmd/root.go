// Package cmd implements the portfolio command line.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dvasava/portfolio/internal/config"
	"github.com/dvasava/portfolio/internal/logging"
)

// app carries what every subcommand needs once the root has loaded it.
type app struct {
	envFile string
	cfg     config.Config
	log     *slog.Logger
}

// NewRootCmd builds the portfolio command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Personal portfolio site with a contact form backend",
		Long: `portfolio serves the portfolio pages and the contact API from one process.

Examples:
  portfolio serve                          Start the site and API
  portfolio submit -n Jane -e j@x.io -m Hi Send a contact message to a backend
  portfolio messages --unread              List unread contact messages`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			slog.SetDefault(a.log)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file read before the environment")

	root.AddCommand(newServeCmd(a), newSubmitCmd(a), newMessagesCmd(a), newVisitsCmd(a))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
