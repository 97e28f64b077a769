// Package tui provides the interactive Bubble Tea report viewer for agentcost.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/agentcost/internal/cli"
	"github.com/theirongolddev/agentcost/internal/export"
	"github.com/theirongolddev/agentcost/internal/model"
	"github.com/theirongolddev/agentcost/internal/tui/components"
	"github.com/theirongolddev/agentcost/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabSummary = iota
	tabProject
	tabOngoing
	tabTokens
	tabSteps
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 3
)

// App is the root Bubble Tea model of the report viewer.
type App struct {
	result *model.CalculationResult

	width     int
	height    int
	activeTab int
	showHelp  bool

	viewport viewport.Model
	// offsets remembers the scroll position of each tab.
	offsets [5]int
}

// NewApp returns a viewer for result.
func NewApp(result *model.CalculationResult) App {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return App{result: result, viewport: vp}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.MouseMsg:
		if a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.switchTab(tab)
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q", "esc":
			return a, tea.Quit
		case "left", "shift+tab":
			a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
			return a, nil
		case "right", "tab":
			a.switchTab((a.activeTab + 1) % len(components.Tabs))
			return a, nil
		case "g", "home":
			a.viewport.GotoTop()
			return a, nil
		case "G", "end":
			a.viewport.GotoBottom()
			return a, nil
		}
		if len(msg.Runes) == 1 {
			r := msg.Runes[0]
			if r >= '1' && int(r-'1') < len(components.Tabs) {
				a.switchTab(int(r - '1'))
				return a, nil
			}
			if idx := components.TabIdxByKey(r); idx >= 0 {
				a.switchTab(idx)
				return a, nil
			}
		}

		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) switchTab(idx int) {
	if idx == a.activeTab {
		return
	}
	a.offsets[a.activeTab] = a.viewport.YOffset
	a.activeTab = idx
	a.viewport.SetContent(a.renderTab(a.contentWidth()))
	a.viewport.SetYOffset(a.offsets[idx])
}

func (a *App) resize() {
	a.viewport.Width = a.contentWidth()
	a.viewport.Height = a.contentHeight()
	a.viewport.SetContent(a.renderTab(a.contentWidth()))
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentHeight() int {
	// tab bar + status bar
	return max(a.height-2, minContentHeight)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  agentcost needs at least %d columns.\n",
			a.width, minTerminalWidth)
	}
	if a.showHelp {
		return a.viewHelp()
	}

	header := components.RenderTabBar(a.activeTab)
	status := components.RenderStatusBar(a.width, a.label(), a.scrollPercent())
	content := lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (a App) scrollPercent() float64 {
	if a.viewport.TotalLineCount() <= a.viewport.Height {
		return -1
	}
	return a.viewport.ScrollPercent()
}

func (a App) label() string {
	if a.result == nil {
		return ""
	}
	parts := []string{}
	for _, s := range []string{a.result.CustomerName, a.result.ProjectName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return string(a.result.ProjectType)
	}
	return strings.Join(parts, " / ")
}

func (a App) viewHelp() string {
	t := theme.Active

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range []struct{ key, desc string }{
		{"s p o t e", "Jump to tab"},
		{"1-5", "Jump to tab"},
		{"← → tab", "Previous / next tab"},
		{"j k ↑ ↓", "Scroll"},
		{"pgup pgdn", "Page"},
		{"g G", "Top / bottom"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	} {
		fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", bind.key)), descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("Press any key to close"))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}

func (a App) renderTab(cw int) string {
	r := a.result
	if r == nil {
		return "\n  No estimate loaded."
	}

	var body string
	switch a.activeTab {
	case tabSummary:
		body = a.renderSummary(cw)
	case tabProject:
		body = orEmpty(export.ProjectSection(r), "This estimate has no one-off project.")
	case tabOngoing:
		body = orEmpty(export.OngoingSection(r), "This estimate has no ongoing usage.")
	case tabTokens:
		body = orEmpty(export.TokenSection(r), "No tokens were estimated.")
	case tabSteps:
		body = orEmpty(export.StepsSection(r), "No calculation steps recorded.")
		body += "\n  " + lipgloss.NewStyle().Foreground(theme.Active.TextDim).Width(max(cw-4, 10)).Render(r.DisclaimerText)
	}
	return "\n" + body
}

func (a App) renderSummary(cw int) string {
	r := a.result
	t := theme.Active

	var b strings.Builder
	if metrics := headlineMetrics(r); len(metrics) > 0 {
		b.WriteString(components.MetricCardRow(metrics, cw))
		b.WriteString("\n\n")
	}
	b.WriteString(export.Summary(r))

	if len(r.ModelWarnings)+len(r.MissingModels) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Warning).Width(max(cw-6, 10))
		lines := make([]string, 0, len(r.ModelWarnings)+len(r.MissingModels))
		for _, w := range r.ModelWarnings {
			lines = append(lines, warn.Render(w))
		}
		for _, id := range r.MissingModels {
			lines = append(lines, warn.Render(fmt.Sprintf("Model %q is not in the pricing catalog; its cost was counted as zero.", id)))
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Warnings", strings.Join(lines, "\n"), cw))
		b.WriteString("\n")
	}

	if charts := export.ChartSection(r); charts != "" {
		b.WriteString("\n")
		b.WriteString(charts)
	}
	return b.String()
}

func headlineMetrics(r *model.CalculationResult) []components.Metric {
	t := theme.Active
	var out []components.Metric

	if r.TraditionalCost != nil {
		out = append(out, components.Metric{
			Label: "Traditional",
			Value: cli.FormatAUD(r.TraditionalCost.AUD),
			Note:  cli.FormatUSD(r.TraditionalCost.USD),
		})
	}
	if r.AgenticCost != nil {
		out = append(out, components.Metric{
			Label: "Agentic",
			Value: cli.FormatAUD(r.AgenticCost.Total.AUD),
			Note:  cli.FormatUSD(r.AgenticCost.Total.USD),
			Color: t.Cost,
		})
	}
	if sa := r.SavingsAnalysis; sa != nil {
		out = append(out, components.Metric{
			Label: "Savings",
			Value: cli.FormatAUD(sa.CostSavings.AUD),
			Note:  "ROI " + cli.FormatPercent(float64(sa.ROI)),
			Color: t.Saving,
		})
	}
	if dc := r.DailyCosts; dc != nil {
		out = append(out, components.Metric{
			Label: "Ongoing / month",
			Value: cli.FormatAUD(dc.Monthly.AUD),
			Note:  cli.FormatAUD(dc.Total.AUD) + " per day",
			Color: t.Cost,
		})
	}
	return out
}

func orEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Render(fallback) + "\n"
}
