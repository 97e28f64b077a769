// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/agentcost/internal/model"
)

// FormatTokens formats a token count with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatTokens(n float64) string {
	abs := math.Abs(n)

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", n/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", n/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", n/1_000)
	default:
		return strconv.FormatFloat(math.Round(n), 'f', 0, 64)
	}
}

// FormatMoney formats an amount with thousands separators and cents,
// prefixed by symbol. e.g., ("A$", 32000) -> "A$32,000.00"
func FormatMoney(symbol string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return symbol + "-"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, FormatNumber(cents/100), cents%100)
}

// FormatAUD formats an AUD amount.
func FormatAUD(v float64) string { return FormatMoney("A$", v) }

// FormatUSD formats a USD amount.
func FormatUSD(v float64) string { return FormatMoney("US$", v) }

// FormatPair formats a currency pair as "A$1,234.00 (US$802.10)".
func FormatPair(p model.CurrencyPair) string {
	return FormatAUD(p.AUD) + " (" + FormatUSD(p.USD) + ")"
}

// FormatHours formats a number of hours, trimming a zero fraction.
// e.g., 40 -> "40h", 12.5 -> "12.5h"
func FormatHours(h float64) string {
	s := strconv.FormatFloat(math.Round(h*10)/10, 'f', -1, 64)
	return s + "h"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a percentage value (already scaled to 0-100).
// An infinite ROI renders as "∞".
func FormatPercent(p float64) string {
	switch {
	case math.IsInf(p, 1):
		return "∞"
	case math.IsInf(p, -1):
		return "-∞"
	case math.IsNaN(p):
		return "-"
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatMultiplier formats a speed or capability factor, e.g. 1.5 -> "1.50x".
func FormatMultiplier(f float64) string {
	return fmt.Sprintf("%.2fx", f)
}

// FormatPerMTok formats a per-million-token price.
func FormatPerMTok(usd float64) string {
	if usd == 0 {
		return "-"
	}
	return "$" + strconv.FormatFloat(usd, 'f', -1, 64)
}
