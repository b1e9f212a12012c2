// oscana loads MINOS ntuples into a data handler, applies cuts and
// transforms, and exports or queries snapshots.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	defaults "github.com/xtxerr/oscana/config"
	"github.com/xtxerr/oscana/internal/config"
	"github.com/xtxerr/oscana/internal/envfile"
	"github.com/xtxerr/oscana/internal/logging"
	"github.com/xtxerr/oscana/internal/metrics"
)

// Version is set at build time via ldflags
var Version = "dev"

// CLI flags
var (
	cfgPath     string
	envPath     string
	strategy    string
	logLevel    string
	jsonLogs    bool
	metricsFile string
	makeCuts    bool
)

// Loaded in PersistentPreRunE.
var (
	cfg *config.Config
	met *metrics.Metrics
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "oscana",
	Short: "oscana - MINOS ntuple analysis pipeline",
	Long: `oscana ingests MINOS ntuple files into a data handler, applies an ordered
pipeline of cuts and transforms, and exports the result as a Parquet snapshot.

File keys are resolved through the environment, populated from a .env file.

Examples:
  oscana generate data --runs 1001,1002
  oscana load SNTP_1001 SNTP_1002
  oscana apply --export out/run1001.parquet
  oscana query out/run1001.parquet evt.energy`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metricsFile == "" {
			return nil
		}
		return met.WriteTextfile(metricsFile)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", defaults.DefaultConfigFile, "config file path")
	pf.StringVar(&envPath, "env", "", "env file holding file keys (overrides config)")
	pf.StringVarP(&strategy, "strategy", "s", "", "storage strategy (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&jsonLogs, "json-logs", false, "log as JSON")
	pf.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	pf.BoolVar(&makeCuts, "make-cuts", false, "record cuts as a mask instead of removing rows")
}

// setup loads the config and env file and initialises logging.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		cfg = config.DefaultConfig()
	}

	if envPath != "" {
		cfg.EnvFile = envPath
	}
	if strategy != "" {
		cfg.Strategy = strategy
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if jsonLogs {
		cfg.Logging.JSON = true
	}
	if cmd.Flags().Changed("make-cuts") {
		cfg.MakeCuts = makeCuts
	}

	logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.JSON)

	// The default env file is optional; an explicit one must exist.
	if err := envfile.Load(envPath == "", cfg.EnvFile); err != nil {
		return err
	}

	met = metrics.New(defaults.DefaultMetricsNamespace)
	return nil
}
