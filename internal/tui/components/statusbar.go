package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/agentcost/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left and the
// report label plus scroll position on the right. A negative scrollPercent
// hides the position.
func RenderStatusBar(width int, label string, scrollPercent float64) string {
	t := theme.Active

	left := " [?]help  [←→]tabs  [j/k]scroll  [q]uit"
	var right []string
	if label != "" {
		right = append(right, label)
	}
	if scrollPercent >= 0 {
		right = append(right, strconv.Itoa(int(min(scrollPercent, 1)*100+0.5))+"%")
	}
	r := strings.Join(right, "  ") + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(r)
	if padding < 1 {
		padding = 1
	}

	return lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + r)
}
