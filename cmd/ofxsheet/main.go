package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/ofxsheet/internal/cli"
	"github.com/Veraticus/ofxsheet/internal/common"
	"github.com/Veraticus/ofxsheet/internal/config"
	"github.com/Veraticus/ofxsheet/internal/convert"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, cli.FormatError(err.Error()))
		if common.IsUsageError(err) {
			fmt.Fprint(stderr, cmd.UsageString())
		} else {
			common.LogError(err, "Conversion failed", common.Fields{"args": args})
		}
	}
	return common.ExitCode(err)
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	var cfgFile string
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "ofxsheet <statement.ofx> <report.xlsx>",
		Short: "Convert OFX bank statements into Excel reports",
		Long: `ofxsheet reads an OFX statement exported by your bank, works out its text
encoding, and writes every transaction of every account into a single formatted
spreadsheet.

Examples:
  # Convert a checking account export
  ofxsheet ~/Downloads/checking_jan_2024.ofx ~/Reports/january.xlsx

  # Use Brazilian Portuguese labels and dates
  OFXSHEET_REPORT_LOCALE=pt-BR ofxsheet extrato.ofx extrato.xlsx`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			loaded, err := initConfig(v, cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, cfg, args)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/ofxsheet/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = v.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))

	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) (config.Config, error) {
	config.BindEnv(v)

	if err := config.ReadFile(v, cfgFile); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, err
	}

	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return config.Config{}, err
	}
	if err := common.SetupLogger(level, cfg.Logging.Format); err != nil {
		return config.Config{}, fmt.Errorf("failed to setup logging: %w", err)
	}

	return cfg, nil
}

func runConvert(cmd *cobra.Command, cfg config.Config, args []string) error {
	inv, err := convert.ParseInvocation(args)
	if err != nil {
		return err
	}

	labels, err := cfg.Labels()
	if err != nil {
		return err
	}

	result, err := convert.New(labels).Run(cmd.Context(), inv)
	if err != nil {
		return err
	}

	slog.Debug("Rendering summary", "accounts", len(result.Accounts))
	return cli.NewSummaryPrinter(cmd.OutOrStdout()).Print(result.Accounts, result.Output)
}
