package calculator

import (
	"github.com/theirongolddev/agentcost/internal/currency"
	"github.com/theirongolddev/agentcost/internal/model"
)

// Defaults for one-off projects when the request leaves them unset.
const (
	defaultProjectOutputPercentage = 80
	defaultProjectCachedPercentage = 80
)

// AgenticEstimate is the AI-assisted cost of a one-off project.
type AgenticEstimate struct {
	Cost  model.AgenticCost
	Hours float64
	// SpeedMultiplier is the primary model's speed used for Hours.
	SpeedMultiplier float64
	// EffectiveMultiplier is the agentic multiplier adjusted for model speed.
	EffectiveMultiplier float64
	Tokens              TokenCost
}

// Agentic estimates inference plus human-oversight cost for a project.
func (e *Engine) Agentic(p model.ProjectParameters, llm model.LLMConfig, global model.GlobalParameters) AgenticEstimate {
	rate := global.CurrencyRate

	outputPct := model.FloatOr(p.OutputTokenPercentage, defaultProjectOutputPercentage)
	cachedPct := model.FloatOr(p.CachedTokenPercentage, defaultProjectCachedPercentage)
	tokens := e.TokenCost(p.TotalProjectTokens, outputPct, cachedPct/100, llm, global)

	speed := 1.0
	if primary, ok := e.catalog.Lookup(llm.PrimaryModelID); ok && primary.SpeedMultiplier > 0 {
		speed = primary.SpeedMultiplier
	}

	effective := p.AgenticMultiplier / speed
	if effective <= 0 {
		// No usable speed-up: agentic work takes as long as manual work.
		effective = 1
	}
	hours := p.ManualDevHours / effective

	humanUSD := hours * currency.ToPrimaryFromSecondary(p.AverageHourlyRate, rate)
	inferenceUSD := tokens.CostUSD
	totalUSD := inferenceUSD + humanUSD

	multiplier := model.FloatOr(global.TotalCostMultiplier, 1)

	return AgenticEstimate{
		Cost: model.AgenticCost{
			Inference: currency.Pair(inferenceUSD*multiplier, rate),
			Human:     currency.Pair(humanUSD*multiplier, rate),
			Total:     currency.Pair(totalUSD*multiplier, rate),
		},
		Hours:               hours,
		SpeedMultiplier:     speed,
		EffectiveMultiplier: effective,
		Tokens:              tokens,
	}
}
