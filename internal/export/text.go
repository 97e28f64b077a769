package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/agentcost/internal/cli"
	"github.com/theirongolddev/agentcost/internal/model"
)

const barWidth = 30

// Text writes a formatted report of result.
func Text(w io.Writer, result *model.CalculationResult) error {
	if result == nil {
		return fmt.Errorf("no result to export")
	}

	var b strings.Builder
	title := "Agentic Cost Estimate"
	if result.ProjectName != "" {
		title += ": " + result.ProjectName
	}
	b.WriteString(cli.RenderTitle(title))
	b.WriteString("\n\n")

	b.WriteString(Summary(result))

	for _, section := range []string{
		ProjectSection(result),
		OngoingSection(result),
		TokenSection(result),
		ChartSection(result),
	} {
		if section != "" {
			b.WriteString("\n")
			b.WriteString(section)
		}
	}

	if len(result.ModelWarnings) > 0 || len(result.MissingModels) > 0 {
		b.WriteString("\n")
		for _, warning := range result.ModelWarnings {
			b.WriteString("  " + cli.RenderWarning(warning) + "\n")
		}
		for _, id := range result.MissingModels {
			b.WriteString("  " + cli.RenderWarning(fmt.Sprintf("Model %q is not in the pricing catalog; its cost was counted as zero.", id)) + "\n")
		}
	}

	if steps := StepsSection(result); steps != "" {
		b.WriteString("\n")
		b.WriteString(steps)
	}

	b.WriteString("\n  ")
	b.WriteString(result.DisclaimerText)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary renders the report metadata block.
func Summary(r *model.CalculationResult) string {
	pairs := [][2]string{}
	add := func(label, value string) {
		if value != "" {
			pairs = append(pairs, [2]string{label, value})
		}
	}
	add("Customer", r.CustomerName)
	add("Project", r.ProjectName)
	add("Description", r.ProjectDescription)
	add("Project type", string(r.ProjectType))
	add("Primary model", r.PrimaryModelID)
	add("Secondary model", r.SecondaryModelID)
	add("Currency rate", fmt.Sprintf("%g", r.CurrencyRate))
	return cli.RenderKeyValues("Summary", pairs)
}

// ProjectSection renders the one-off comparison, or "" when absent.
func ProjectSection(r *model.CalculationResult) string {
	if r.TraditionalCost == nil || r.AgenticCost == nil {
		return ""
	}

	rows := [][]string{
		{"Traditional", cli.FormatAUD(r.TraditionalCost.AUD), cli.FormatUSD(r.TraditionalCost.USD), hoursOf(r.TraditionalTime)},
		{"Agentic total", cli.FormatAUD(r.AgenticCost.Total.AUD), cli.FormatUSD(r.AgenticCost.Total.USD), hoursOf(r.AgenticTime)},
		{"  inference", cli.FormatAUD(r.AgenticCost.Inference.AUD), cli.FormatUSD(r.AgenticCost.Inference.USD), ""},
		{"  human", cli.FormatAUD(r.AgenticCost.Human.AUD), cli.FormatUSD(r.AgenticCost.Human.USD), ""},
	}
	if r.HumanGuidanceCost != nil {
		rows = append(rows, []string{"Human guidance", cli.FormatAUD(r.HumanGuidanceCost.AUD), cli.FormatUSD(r.HumanGuidanceCost.USD), hoursOf(r.HumanGuidanceTime)})
	}
	if r.AIProcessingTime != nil {
		rows = append(rows, []string{"AI processing", "-", "-", hoursOf(r.AIProcessingTime)})
	}
	if r.AISetupCost != nil {
		rows = append(rows, []string{"AI setup", cli.FormatAUD(r.AISetupCost.AUD), cli.FormatUSD(r.AISetupCost.USD), hoursOf(r.AISetupTime)})
	}
	if r.TotalProjectTime != nil {
		rows = append(rows, []string{cli.SeparatorRow}, []string{"Total project time", "", "", hoursOf(r.TotalProjectTime)})
	}

	var b strings.Builder
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "One-off Project",
		Headers: []string{"Item", "AUD", "USD", "Hours"},
		Rows:    rows,
	}))

	if sa := r.SavingsAnalysis; sa != nil {
		b.WriteString("\n")
		b.WriteString(cli.RenderKeyValues("Savings", [][2]string{
			{"Cost savings", cli.FormatPair(sa.CostSavings)},
			{"Time savings", cli.FormatHours(sa.TimeSavings)},
			{"Time savings value", cli.FormatPair(sa.TimeSavingsValue)},
			{"ROI", cli.FormatPercent(float64(sa.ROI))},
			{"Percentage savings", cli.FormatPercent(sa.PercentageSavings)},
		}))
	}
	if r.FTEEquivalentCost != nil {
		b.WriteString(cli.RenderKeyValues("", [][2]string{
			{"FTE monthly equivalent", cli.FormatPair(*r.FTEEquivalentCost)},
		}))
	}
	return b.String()
}

// OngoingSection renders the ongoing usage estimate, or "" when absent.
func OngoingSection(r *model.CalculationResult) string {
	dc := r.DailyCosts
	if dc == nil {
		return ""
	}

	row := func(label string, c model.SourceCosts) []string {
		return []string{label, cli.FormatAUD(c.Total.AUD), cli.FormatAUD(c.Monthly.AUD), cli.FormatAUD(c.Yearly.AUD)}
	}

	rows := [][]string{}
	if b := dc.Breakdown; b != nil {
		if b.Team != nil {
			rows = append(rows, row("Team", b.Team.SourceCosts))
			if b.Team.PerDev != nil {
				rows = append(rows, []string{"  per developer",
					cli.FormatAUD(b.Team.PerDev.AUD), cli.FormatAUD(b.Team.PerDevMonthly.AUD), cli.FormatAUD(b.Team.PerDevYearly.AUD)})
			}
		}
		if b.Product != nil {
			rows = append(rows, row("Product", *b.Product))
		}
		rows = append(rows, []string{cli.SeparatorRow})
	}
	rows = append(rows, row("Total", model.SourceCosts{Total: dc.Total, Monthly: dc.Monthly, Yearly: dc.Yearly}))

	var b strings.Builder
	b.WriteString(cli.RenderTable(cli.Table{
		Title:   "Ongoing Usage (AUD)",
		Headers: []string{"Source", "Daily", "Monthly", "Yearly"},
		Rows:    rows,
	}))

	if roi := dc.DailyROI; roi != nil {
		b.WriteString("\n")
		b.WriteString(cli.RenderKeyValues("Daily ROI", [][2]string{
			{"Traditional daily", cli.FormatPair(roi.TraditionalDailyCost)},
			{"Agentic daily", cli.FormatPair(roi.AgenticDailyCost)},
			{"ROI", cli.FormatPercent(float64(roi.ROI))},
		}))
	}
	return b.String()
}

// TokenSection renders the merged token usage, or "" when absent.
func TokenSection(r *model.CalculationResult) string {
	u := r.TokenUsage
	if u == nil {
		return ""
	}
	return cli.RenderTable(cli.Table{
		Title:   "Token Usage",
		Headers: []string{"Category", "Tokens"},
		Rows: [][]string{
			{"Input", cli.FormatTokens(u.Input)},
			{"Output", cli.FormatTokens(u.Output)},
			{"Cache write", cli.FormatTokens(u.CacheWrite)},
			{"Cache read", cli.FormatTokens(u.CacheRead)},
			{cli.SeparatorRow},
			{"Effective total", cli.FormatTokens(u.EffectiveTotal)},
		},
	})
}

// ChartSection renders the chart dataset as horizontal bars.
func ChartSection(r *model.CalculationResult) string {
	cd := r.ChartData
	if cd == nil {
		return ""
	}

	var b strings.Builder
	groups := []struct {
		title  string
		points []model.ChartPoint
	}{
		{"Cost comparison", cd.CostComparison},
		{"Agentic split", cd.AgenticSplit},
		{"Ongoing by period", cd.OngoingPeriods},
		{"Ongoing by source", cd.OngoingSources},
	}
	for _, g := range groups {
		if len(g.points) == 0 {
			continue
		}
		b.WriteString(barChart(g.title, g.points))
	}
	return b.String()
}

func barChart(title string, points []model.ChartPoint) string {
	maxAUD := 0.0
	labelWidth := 0
	for _, p := range points {
		if p.AUD > maxAUD {
			maxAUD = p.AUD
		}
		if len(p.Label) > labelWidth {
			labelWidth = len(p.Label)
		}
	}

	var b strings.Builder
	b.WriteString("  " + title + "\n")
	for _, p := range points {
		label := fmt.Sprintf("%-*s", labelWidth, p.Label)
		b.WriteString(cli.RenderHorizontalBar(label, p.AUD, maxAUD, barWidth))
		b.WriteString(" " + cli.FormatAUD(p.AUD) + "\n")
	}
	return b.String()
}

// StepsSection renders the calculation audit trail.
func StepsSection(r *model.CalculationResult) string {
	if len(r.CalculationSteps) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  Calculation steps\n")
	for i, step := range r.CalculationSteps {
		fmt.Fprintf(&b, "  %2d. %s\n", i+1, step)
	}
	return b.String()
}

func hoursOf(h *float64) string {
	if h == nil {
		return ""
	}
	return cli.FormatHours(*h)
}
