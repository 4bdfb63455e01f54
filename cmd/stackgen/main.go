package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xgx-io/stackerr"
	"github.com/xgx-io/stackerr/internal/cli"
	"github.com/xgx-io/stackerr/internal/config"
	"github.com/xgx-io/stackerr/internal/logging"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Global flags
var (
	verbose    bool
	configPath string
	logLevel   string
)

// Flag overrides of config values
var (
	tierFlag        string
	suffixFlag      string
	concurrencyFlag int
	stackTypesFlag  []string
	watchFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "stackgen",
	Short: "Generate location-tracking Go error types from YAML schemas",
	Long: `stackgen reads *.stackerr.yaml schema files and writes Go error types that
record where they were constructed and render their causal chain as a
stack-trace-like report through github.com/xgx-io/stackerr.

Examples:
  stackgen generate ./...
  stackgen generate internal/store/errors.stackerr.yaml
  stackgen generate --watch internal
  stackgen check --verbose`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [files or directories...]",
	Short: "Generate Go code for schema files",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner(cmd)
		if err != nil {
			return err
		}
		paths := expandDots(args)
		if watchFlag {
			return runner.Watch(cmd.Context(), paths)
		}
		return runner.Generate(cmd.Context(), paths)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [files or directories...]",
	Short: "Report schema diagnostics and out-of-date generated files without writing",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner(cmd)
		if err != nil {
			return err
		}
		return runner.Check(cmd.Context(), expandDots(args))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show stackgen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stackgen version %s\n", version)
	},
}

// newRunner loads the config, applies flag overrides and sets up logging.
func newRunner(cmd *cobra.Command) (*cli.Runner, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, cli.NewConfigError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("tier") {
		cfg.Tier = tierFlag
	}
	if flags.Changed("suffix") {
		cfg.Suffix = suffixFlag
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrencyFlag
	}
	if flags.Changed("stack-type") {
		cfg.StackTypes = append(cfg.StackTypes, stackTypesFlag...)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	} else if verbose {
		cfg.LogLevel = "info"
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.NewConfigError(err)
	}

	logger, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return nil, cli.NewConfigError(err)
	}
	cli.ConfigureLogging(logger)

	return cli.NewRunner(cfg, verbose), nil
}

// expandDots treats "./..." like the directory it names.
func expandDots(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch a {
		case "./...", "...":
			out[i] = "."
		default:
			out[i] = a
		}
	}
	return out
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./"+config.FileName+" when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	for _, cmd := range []*cobra.Command{generateCmd, checkCmd} {
		cmd.Flags().StringVar(&tierFlag, "tier", "", "API tier of the generated code: minimal, alloc or full")
		cmd.Flags().StringVar(&suffixFlag, "suffix", "", "Suffix of generated file names (default "+config.DefaultSuffix+")")
		cmd.Flags().IntVarP(&concurrencyFlag, "concurrency", "j", 0, "Schema files processed in parallel")
		cmd.Flags().StringSliceVar(&stackTypesFlag, "stack-type", nil, "Extra type implementing stackerr.StackError (repeatable)")
	}
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Regenerate schema files as they change")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	stackerr.Main(func() error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return rootCmd.ExecuteContext(ctx)
	})
}
