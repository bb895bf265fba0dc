package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"uiforge/internal/config"
	"uiforge/internal/design"
)

var (
	// Global flags
	verbose    bool
	configPath string
	outDir     string
	model      string
	skipSetup  bool

	// Logger
	logger *zap.Logger
)

// rootCmd generates components from a design reference.
var rootCmd = &cobra.Command{
	Use:   "uiforge [reference]",
	Short: "uiforge - design-document to React component pipeline",
	Long: `uiforge turns a design-document reference into generated React
component artifacts.

It runs a fixed six-stage pipeline: locate the referenced subtree,
classify its top-level sections, discover the reusable elements of the
first section, then extract design properties and generate one component
per element category. The remaining sections and duplicate elements are
recorded as deferred; run once per section for full coverage.

The reference is either "documentKey/nodeId" or a full design URL with a
node-id parameter.

Fatal errors are limited to missing credentials and an unparseable
reference; everything else degrades to a partial run with warnings.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg = zap.NewDevelopmentConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE:          runGenerate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// historyCmd lists past generation records.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past generation records from the metadata store",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFileName, "path to the config file")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides config)")
	rootCmd.Flags().StringVar(&model, "model", "", "completion model (overrides config)")
	rootCmd.Flags().BoolVar(&skipSetup, "skip-setup", false, "do not write a starter config on first run")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum records to list")

	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printErrorBanner(err)
		os.Exit(1)
	}
}

// isFatal reports whether the error is one of the two fatal preconditions.
// Anything else reaching here is a setup problem (bad config file, broken
// store) and still exits non-zero, but run-level failures never do.
func isFatal(err error) bool {
	return errors.Is(err, config.ErrMissingCredentials) || errors.Is(err, design.ErrBadReference)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	return cfg, nil
}
