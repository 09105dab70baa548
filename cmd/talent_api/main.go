// Package main provides the entry point for the Talent Match HTTP API server
// and its command-line tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/logging"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:           "talent_api",
	Short:         "Talent Match HTTP API Server",
	Long:          "Talent Match ingests résumés and certificates, extracts candidate fields and ranks candidates against free-text job descriptions by semantic similarity.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./talent_api.yaml when present)")
	flags.Bool("log-json", false, "Log in JSON instead of the console format")
	flags.Bool("debug", false, "Enable debug logging")

	_ = v.BindPFlag("log.json", flags.Lookup("log-json"))
	_ = v.BindPFlag("log.debug", flags.Lookup("debug"))
}

// loadConfig reads the configuration and builds the logger for a command.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger.With(zap.String("app", config.AppName)), nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
