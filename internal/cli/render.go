package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Report palette (Flexoki Dark).
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorSaving    = lipgloss.Color("#879A39")
	ColorWarning   = lipgloss.Color("#DA702C")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	cellStyle    = lipgloss.NewStyle().Foreground(ColorText)
	labelStyle   = lipgloss.NewStyle().Foreground(ColorTextMuted)
	barStyle     = lipgloss.NewStyle().Foreground(ColorSaving)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	frameStyle   = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// SeparatorRow is a table row holding only this cell; it renders as a rule.
const SeparatorRow = "---"

// titleWidth matches the width of the widest report table.
const titleWidth = 55

// Table is a bordered report table. The first column is the row label and
// is left aligned; every other column holds a figure and is right aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a report heading inside a rounded box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(titleWidth).
		Align(lipgloss.Center).
		Padding(0, 1)
	return box.Render(titleStyle.Render(title))
}

func (t Table) columns() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

func (t Table) widths(cols int) []int {
	widths := make([]int, cols)
	measure := func(cells []string) {
		if len(cells) == 1 && cells[0] == SeparatorRow {
			return
		}
		for i, c := range cells {
			if i < cols {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	return widths
}

// rule draws a horizontal border using the given corner and junction runes.
func rule(b *strings.Builder, widths []int, left, mid, right string) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	b.WriteString(frameStyle.Render(left + strings.Join(parts, mid) + right))
	b.WriteByte('\n')
}

func line(b *strings.Builder, cells []string, widths []int, style lipgloss.Style) {
	bar := frameStyle.Render("│")
	b.WriteString(bar)
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		gap := strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
		if i == 0 {
			cell += gap
		} else {
			cell = gap + cell
		}
		b.WriteString(style.Render(" " + cell + " "))
		b.WriteString(bar)
	}
	b.WriteByte('\n')
}

// RenderTable renders t with box-drawing borders. Columns are sized to their
// widest cell.
func RenderTable(t Table) string {
	cols := t.columns()
	if cols == 0 {
		return ""
	}
	widths := t.widths(cols)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headingStyle.Render(t.Title) + "\n")
	}

	rule(&b, widths, "╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(&b, t.Headers, widths, headingStyle)
		rule(&b, widths, "├", "┼", "┤")
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow {
			rule(&b, widths, "├", "┼", "┤")
			continue
		}
		line(&b, row, widths, cellStyle)
	}
	rule(&b, widths, "╰", "┴", "╯")

	return b.String()
}

// RenderKeyValues renders label/value pairs as an aligned two-column block
// under an optional heading.
func RenderKeyValues(title string, pairs [][2]string) string {
	if len(pairs) == 0 {
		return ""
	}

	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}

	var b strings.Builder
	if title != "" {
		b.WriteString("  " + headingStyle.Render(title) + "\n")
	}
	for _, p := range pairs {
		label := p[0] + strings.Repeat(" ", width-lipgloss.Width(p[0]))
		b.WriteString("  " + labelStyle.Render(label) + "  " + cellStyle.Render(p[1]) + "\n")
	}
	return b.String()
}

// RenderWarning renders a warning line.
func RenderWarning(msg string) string {
	return warnStyle.Render(msg)
}

// RenderHorizontalBar renders label followed by a bar scaled so that
// maxValue fills maxWidth cells.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return "  " + label
	}
	n := min(max(int(value/maxValue*float64(maxWidth)), 0), maxWidth)
	return "  " + label + " " + barStyle.Render(strings.Repeat("█", n))
}
