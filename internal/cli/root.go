package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thruflo/tape/internal/config"
	"github.com/thruflo/tape/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "tape",
	Short: "Run programs for the eight-instruction tape machine",
	Long: `tape loads programs written with the eight tokens + - > < . , [ ]
and runs them on a 32768-cell byte tape. Every other character in a
program file is ignored.

Cells wrap modulo 256 and the cell pointer wraps at both ends of the
tape. Programs with unbalanced brackets are refused before they run, and
reading past the end of input is an error.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("tape version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.yaml, .yml or .toml); default .tape/config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file named by --config, or the default
// .tape/config.yaml in the working directory, applies --log-level and
// configures the default logger.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfigFile(configPath)
	} else {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", cwdErr)
		}
		cfg, err = config.LoadConfig(cwd)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.LogLevel = logLevel
	}

	logging.SetLevel(cfg.Level())
	return cfg, nil
}
