package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", configPath())
	if fileExists(configPath()) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency rate:  %g (usd = aud * rate)\n", cfg.General.CurrencyRate)
	fmt.Printf("    Default model:  %s\n", cfg.General.DefaultModel)
	fmt.Printf("    Hourly rate:    A$%g\n", cfg.General.HourlyRate)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:        %s\n", cfg.Server.Addr)
	fmt.Printf("    History:        %s\n", cfg.StorePath())
	fmt.Printf("    Retention:      %d days\n", cfg.Server.RetentionDays)
	if cfg.Server.PruneSchedule != "" {
		fmt.Printf("    Prune schedule: %s\n", cfg.Server.PruneSchedule)
	}
	if cfg.Server.TemplatesFile != "" {
		fmt.Printf("    Templates file: %s\n", cfg.Server.TemplatesFile)
	}
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s  Format: %s\n", cfg.Logging.Level, cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Pricing]")
	if len(cfg.Pricing.Overrides) == 0 {
		fmt.Println("    Overrides: none")
	} else {
		ids := make([]string, 0, len(cfg.Pricing.Overrides))
		for id := range cfg.Pricing.Overrides {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("    Override: %s\n", id)
		}
	}
	fmt.Println()

	fmt.Println("  Run `agentcost setup` to reconfigure.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
