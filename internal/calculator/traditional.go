package calculator

import (
	"github.com/theirongolddev/agentcost/internal/currency"
	"github.com/theirongolddev/agentcost/internal/model"
)

// TraditionalEstimate is the manual-development baseline.
type TraditionalEstimate struct {
	Cost  model.CurrencyPair
	Hours float64
}

// Traditional prices manualDevHours at hourlyRate (AUD). A non-positive
// currency rate yields a zero estimate.
func Traditional(manualDevHours, hourlyRate, rate float64) TraditionalEstimate {
	if rate <= 0 {
		return TraditionalEstimate{}
	}
	costUSD := manualDevHours * currency.ToPrimaryFromSecondary(hourlyRate, rate)
	return TraditionalEstimate{
		Cost:  currency.Pair(costUSD, rate),
		Hours: manualDevHours,
	}
}
