// Package cmd implements the agentcost CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/calculator"
	"github.com/theirongolddev/agentcost/internal/config"
	"github.com/theirongolddev/agentcost/internal/logging"
)

var (
	flagConfig   string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "agentcost",
	Short: "Agentic development cost estimator",
	Long: "Estimate and compare the cost of traditional and agentic software development,\n" +
		"for one-off projects and ongoing team or product usage.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Path()
}

// loadConfig reads the config file selected by --config.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if flagQuiet && flagLogLevel == "" {
		level = "warn"
	}
	return logging.New(logging.Config{Level: level, Format: cfg.Logging.Format})
}

// env is the shared wiring every command builds from the config file.
type env struct {
	cfg       config.Config
	logger    *slog.Logger
	engine    *calculator.Engine
	templates *config.TemplateSet
}

func loadEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	templates, err := config.LoadTemplates(cfg.Server.TemplatesFile)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:       cfg,
		logger:    logger,
		engine:    calculator.New(cfg.Catalog(), logger),
		templates: templates,
	}, nil
}

// info prints to stderr unless --quiet.
func info(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
