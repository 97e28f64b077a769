package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/agentcost/internal/tui/theme"
)

// Tab is one report section in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines the report sections in display order.
var Tabs = []Tab{
	{Name: "Summary", Key: 's', KeyPos: 0},
	{Name: "Project", Key: 'p', KeyPos: 0},
	{Name: "Ongoing", Key: 'o', KeyPos: 0},
	{Name: "Tokens", Key: 't', KeyPos: 0},
	{Name: "Steps", Key: 'e', KeyPos: 2},
}

func tabStyles() (active, inactive, key, dimKey lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().Foreground(t.TextMuted)
	key = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimKey = lipgloss.NewStyle().Foreground(t.TextDim)
	return active, inactive, key, dimKey
}

func renderTab(tab Tab, isActive bool) string {
	activeStyle, inactiveStyle, keyStyle, dimKeyStyle := tabStyles()
	if isActive {
		return activeStyle.Render(tab.Name)
	}

	before := tab.Name[:tab.KeyPos]
	key := string(tab.Name[tab.KeyPos])
	after := tab.Name[tab.KeyPos+1:]
	return " " + inactiveStyle.Render(before) +
		dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
		inactiveStyle.Render(after) + " "
}

// RenderTabBar renders the tab bar on a single row.
func RenderTabBar(activeIdx int) string {
	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	return strings.Join(parts, " ")
}

// TabVisualWidth returns the rendered width of tab, matching RenderTabBar.
func TabVisualWidth(tab Tab, isActive bool) int {
	return lipgloss.Width(renderTab(tab, isActive))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
