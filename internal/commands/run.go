package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bankbook-dev/bankbook/internal/bank"
	"github.com/bankbook-dev/bankbook/internal/config"
	"github.com/bankbook-dev/bankbook/internal/logger"
	"github.com/bankbook-dev/bankbook/internal/model"
	"github.com/bankbook-dev/bankbook/internal/ops"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	var configPath string
	var failFast bool

	cmd := &cobra.Command{
		Use:   "run <script.csv>",
		Short: "Replay a script of deposits and withdrawals and print a statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.OutOrStdout(), cmd.ErrOrStderr(), runParams{
				configPath: configPath,
				scriptPath: args[0],
				logLevel:   flags.logLevel,
				failFast:   failFast,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.FileName, "path to bankbook.yaml")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first rejected operation and exit non-zero")

	return cmd
}

type runParams struct {
	configPath string
	scriptPath string
	logLevel   string
	failFast   bool
}

func runScript(out, errOut io.Writer, p runParams) error {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if p.logLevel != "" {
		level = p.logLevel
	}
	log, err := logger.New(errOut, level, cfg.Log.Format)
	if err != nil {
		return err
	}

	b, err := newBank(cfg, log)
	if err != nil {
		return err
	}

	script, err := readScript(p.scriptPath)
	if err != nil {
		return err
	}

	outcomes := ops.Replay(b, script, p.failFast)

	if err := ops.WriteOutcomes(out, outcomes); err != nil {
		return fmt.Errorf("writing outcomes: %w", err)
	}
	fmt.Fprintln(out)
	if err := ops.WriteStatement(out, cfg.Ledger.Name, b); err != nil {
		return err
	}

	summary := ops.Summarize(outcomes)
	log.WithFields(logrus.Fields{
		"script":   p.scriptPath,
		"accepted": summary.Accepted,
		"rejected": summary.Rejected,
		"total":    b.TotalBalance().String(),
	}).Info("replay finished")

	if p.failFast {
		if failed, ok := ops.FirstFailure(outcomes); ok {
			return fmt.Errorf("line %d: %w", failed.Operation.Line, failed.Err)
		}
	}
	return nil
}

func newBank(cfg *config.Config, log logrus.FieldLogger) (*bank.Bank, error) {
	cur, err := model.ParseCurrency(cfg.Ledger.Currency)
	if err != nil {
		return nil, err
	}
	return bank.New(cur,
		bank.WithLogger(log.WithField("ledger", cfg.Ledger.Name)),
		bank.WithFullBalanceWithdrawal(cfg.Ledger.AllowFullWithdrawal),
		bank.WithPositiveDeposits(cfg.Ledger.RequirePositiveDeposit),
	), nil
}

func readScript(path string) ([]ops.Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	script, err := ops.ReadOperations(f)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return script, nil
}
