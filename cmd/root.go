package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/kelheim/config"
	"github.com/kilianp07/kelheim/infra/logger"
)

const defaultConfigPath = "kelheim.yaml"

var (
	cfgPath  string
	logLevel string

	// settings is loaded once per invocation by the root pre-run hook.
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "kelheim",
	Short:             "Prepare and launch MATSim Kelheim scenario runs",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath, "launcher settings file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error), overrides the settings file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadSettings(cmd *cobra.Command, _ []string) error {
	path := cfgPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	settings = cfg
	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
