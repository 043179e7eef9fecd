package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/mortality-atlas/pkg/runtime/logging"
	"github.com/de-tools/mortality-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/mortality-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/mortality-atlas/pkg/services/config"
	"github.com/de-tools/mortality-atlas/pkg/services/report"
	"github.com/de-tools/mortality-atlas/pkg/store/client"
	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	runtime   *commands.Runtime
	logOutput io.Writer
	rootCmd   *cobra.Command

	configPath string
	logLevel   string
	logFormat  string
}

// Options contain configuration for the CLI. Fetcher, S3 and Clock are
// optional and default to the real network, AWS and wall clock.
type Options struct {
	Output    io.Writer
	LogOutput io.Writer
	Fetcher   client.Fetcher
	S3        snapshot.PutObjectAPI
	Clock     report.Clock
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		runtime: &commands.Runtime{
			Fetcher: opts.Fetcher,
			S3:      opts.S3,
			Clock:   opts.Clock,
			Output:  opts.Output,
		},
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "mortality",
		Short:             "Weekly deaths report builder",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}
	cmd.SetOut(cli.runtime.Output)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&cli.logFormat, "log-format", "", "Log format: json or console")

	table := export.NewReporter(cli.runtime.Output)
	text := NewReporter(cli.runtime.Output)

	cmd.AddCommand(commands.NewRunCmd(cli.runtime))
	cmd.AddCommand(commands.NewShowCmd(cli.runtime, map[string]commands.Reporter{
		"table": table,
		"text":  text,
	}))
	cmd.AddCommand(commands.NewRatiosCmd(cli.runtime, table))

	return cmd
}

// setup loads configuration and attaches the root logger to the command context.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return err
	}
	if cli.logLevel != "" {
		cfg.Log.Level = cli.logLevel
	}
	if cli.logFormat != "" {
		cfg.Log.Format = cli.logFormat
	}

	logger, err := logging.New(cli.logOutput, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	cli.runtime.Config = cfg
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}
