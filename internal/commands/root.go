package commands

import (
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/buildinfo"
)

type globalFlags struct {
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:     "bankbook",
		Short:   "Single-currency in-memory account book",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand(&flags))

	return rootCmd
}
