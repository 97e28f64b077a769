package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/config"
	"github.com/theirongolddev/agentcost/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues holds the form fields as strings so huh can edit them.
type setupValues struct {
	rate     string
	hourly   string
	model    string
	theme    string
	logLevel string
	addr     string
}

func positiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if v <= 0 {
		return errors.New("must be greater than 0")
	}
	return nil
}

func newSetupForm(cfg config.Config, vals *setupValues) *huh.Form {
	catalog := cfg.Catalog()
	modelOpts := make([]huh.Option[string], 0, len(catalog.IDs()))
	for _, id := range catalog.IDs() {
		p, _ := catalog.Lookup(id)
		label := p.DisplayName
		if !p.AgenticCodingCapable {
			label += " (not agentic)"
		}
		modelOpts = append(modelOpts, huh.NewOption(label, id))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Currency rate").
				Description("USD per AUD (usd = aud * rate).").
				Value(&vals.rate).
				Validate(positiveFloat),
			huh.NewInput().
				Title("Default hourly rate (AUD)").
				Description("Used when a request leaves averageHourlyRate unset.").
				Value(&vals.hourly).
				Validate(positiveFloat),
			huh.NewSelect[string]().
				Title("Default model").
				Options(modelOpts...).
				Value(&vals.model),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&vals.logLevel),
			huh.NewInput().
				Title("API listen address").
				Value(&vals.addr),
		),
	)
}

func (v setupValues) apply(cfg *config.Config) error {
	rate, err := strconv.ParseFloat(strings.TrimSpace(v.rate), 64)
	if err != nil {
		return fmt.Errorf("currency rate: %w", err)
	}
	hourly, err := strconv.ParseFloat(strings.TrimSpace(v.hourly), 64)
	if err != nil {
		return fmt.Errorf("hourly rate: %w", err)
	}

	cfg.General.CurrencyRate = rate
	cfg.General.HourlyRate = hourly
	cfg.General.DefaultModel = v.model
	cfg.Appearance.Theme = v.theme
	cfg.Logging.Level = v.logLevel
	if addr := strings.TrimSpace(v.addr); addr != "" {
		cfg.Server.Addr = addr
	}
	return nil
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		// A broken file is replaced by the wizard.
		cfg = config.DefaultConfig()
	}

	vals := setupValues{
		rate:     strconv.FormatFloat(cfg.General.CurrencyRate, 'f', -1, 64),
		hourly:   strconv.FormatFloat(cfg.General.HourlyRate, 'f', -1, 64),
		model:    cfg.General.DefaultModel,
		theme:    cfg.Appearance.Theme,
		logLevel: cfg.Logging.Level,
		addr:     cfg.Server.Addr,
	}

	if err := newSetupForm(cfg, &vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := vals.apply(&cfg); err != nil {
		return err
	}
	if err := config.SaveTo(configPath(), cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", configPath())
	fmt.Println("  Run `agentcost setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
