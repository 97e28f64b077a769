// Package currency converts amounts between the internal USD figures and the
// AUD figures shown in reports.
package currency

import (
	"log/slog"
	"math"

	"github.com/theirongolddev/agentcost/internal/model"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the precision of display-currency amounts.
const DisplayPlaces = 2

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int32) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// ToSecondaryFromPrimary converts a USD amount to AUD (usd / rate), rounded
// to cents. Invalid input is logged and yields 0.
func ToSecondaryFromPrimary(valuePrimary, rate float64) float64 {
	if !finite(valuePrimary) || !finite(rate) || rate <= 0 {
		slog.Warn("currency conversion skipped", "value", valuePrimary, "rate", rate)
		return 0
	}
	return Round(valuePrimary/rate, DisplayPlaces)
}

// ToPrimaryFromSecondary converts an AUD amount to USD (aud * rate). The
// result is not rounded.
func ToPrimaryFromSecondary(valueSecondary, rate float64) float64 {
	return valueSecondary * rate
}

// Pair builds a CurrencyPair from a USD amount. The AUD side is derived from
// usd directly, never from another rounded figure.
func Pair(usd, rate float64) model.CurrencyPair {
	return model.CurrencyPair{USD: usd, AUD: ToSecondaryFromPrimary(usd, rate)}
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
