package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/config"
)

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default bankbook.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, currency, force)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "USD", "ISO 4217 currency code of the ledger")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(out io.Writer, dir, name, currency string, force bool) error {
	cfg := config.Default(name, currency)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	path := filepath.Join(dir, config.FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Initialized %s ledger %q at %s\n", cfg.Ledger.Currency, name, path)
	return nil
}
