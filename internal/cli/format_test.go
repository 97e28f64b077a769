package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/agentcost/internal/model"
)

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1234, "1.2K"},
		{2_500_000, "2.5M"},
		{1_234_567_890, "1.2B"},
	}
	for _, tc := range tests {
		if got := FormatTokens(tc.in); got != tc.want {
			t.Errorf("FormatTokens(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "A$0.00"},
		{15.63, "A$15.63"},
		{32000, "A$32,000.00"},
		{1234567.891, "A$1,234,567.89"},
		{-7500, "-A$7,500.00"},
		{math.Inf(1), "A$-"},
	}
	for _, tc := range tests {
		if got := FormatAUD(tc.in); got != tc.want {
			t.Errorf("FormatAUD(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPair(t *testing.T) {
	got := FormatPair(model.CurrencyPair{USD: 20480, AUD: 32000})
	want := "A$32,000.00 (US$20,480.00)"
	if got != want {
		t.Fatalf("FormatPair = %q, want %q", got, want)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(600); got != "600.0%" {
		t.Errorf("FormatPercent(600) = %q", got)
	}
	if got := FormatPercent(math.Inf(1)); got != "∞" {
		t.Errorf("FormatPercent(+Inf) = %q, want ∞", got)
	}
}

func TestFormatHours(t *testing.T) {
	tests := map[float64]string{40: "40h", 12.5: "12.5h", 33.333: "33.3h"}
	for in, want := range tests {
		if got := FormatHours(in); got != want {
			t.Errorf("FormatHours(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4200: "-4,200"}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderTableAlignsWideCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"ROI", "∞"},
			{"Savings", "A$7,500.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	width := len([]rune(lines[0]))
	for i, l := range lines {
		if n := len([]rune(l)); n != width {
			t.Fatalf("line %d width %d, want %d:\n%s", i, n, width, out)
		}
	}
}

func TestRenderKeyValues(t *testing.T) {
	out := RenderKeyValues("Summary", [][2]string{{"Customer", "Acme"}, {"Rate", "0.65"}})
	if !strings.Contains(out, "Summary") || !strings.Contains(out, "Acme") {
		t.Fatalf("output = %q", out)
	}
	if RenderKeyValues("empty", nil) != "" {
		t.Fatal("empty pairs should render nothing")
	}
}

func TestRenderTableSeparatorRow(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Tokens",
		Headers: []string{"Category", "Tokens"},
		Rows:    [][]string{{"Input", "4.0M"}, {SeparatorRow}, {"Total", "20.0M"}},
	})
	if !strings.Contains(out, "Tokens\n") {
		t.Fatalf("title missing:\n%s", out)
	}
	if strings.Contains(out, SeparatorRow) {
		t.Fatalf("separator rendered as a cell:\n%s", out)
	}
	if n := strings.Count(out, "├"); n != 2 {
		t.Fatalf("got %d inner rules, want 2:\n%s", n, out)
	}
	if RenderTable(Table{}) != "" {
		t.Fatal("empty table should render nothing")
	}
}
