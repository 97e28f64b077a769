package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/model"
	"github.com/theirongolddev/agentcost/internal/store"
	"github.com/theirongolddev/agentcost/internal/tui"
	"github.com/theirongolddev/agentcost/internal/tui/theme"
)

var (
	reportFlags    requestFlags
	flagReportID   string
	flagReportSave bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Browse an estimate in the interactive report viewer",
	Example: `  agentcost report -t enterprise-platform
  agentcost report --id 5f0c...`,
	RunE: runReport,
}

func init() {
	reportFlags.register(reportCmd)
	reportCmd.Flags().StringVar(&flagReportID, "id", "", "Open a saved estimate instead of calculating")
	reportCmd.Flags().BoolVar(&flagReportSave, "save", false, "Save the estimate to the history database")
	rootCmd.AddCommand(reportCmd)
}

func runReport(c *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	var res *model.CalculationResult
	if flagReportID != "" {
		res, err = loadSavedResult(e, flagReportID)
	} else {
		res, err = calculateForReport(c, e)
	}
	if err != nil {
		return err
	}

	theme.SetActive(e.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	p := tea.NewProgram(tui.NewApp(res), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func loadSavedResult(e *env, id string) (*model.CalculationResult, error) {
	st, err := store.Open(e.cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = st.Close() }()

	est, err := st.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return est.Result, nil
}

func calculateForReport(c *cobra.Command, e *env) (*model.CalculationResult, error) {
	req, err := reportFlags.build(c, e.cfg, e.templates)
	if err != nil {
		return nil, describeError(err)
	}
	res, err := e.engine.Calculate(req)
	if err != nil {
		return nil, err
	}

	if flagReportSave {
		st, err := store.Open(e.cfg.StorePath())
		if err != nil {
			return nil, fmt.Errorf("opening history: %w", err)
		}
		defer func() { _ = st.Close() }()
		if err := st.Save(context.Background(), store.NewEstimate(req, res)); err != nil {
			return nil, err
		}
	}
	return res, nil
}
