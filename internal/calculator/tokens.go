package calculator

import (
	"math"

	"github.com/theirongolddev/agentcost/internal/config"
	"github.com/theirongolddev/agentcost/internal/currency"
	"github.com/theirongolddev/agentcost/internal/model"
)

// costPlaces keeps sub-cent USD precision on per-model token costs.
const costPlaces = 6

// TokenCost is the USD cost and usage of a batch of tokens.
type TokenCost struct {
	CostUSD float64
	Usage   model.TokenUsage
	// MissingModels lists configured ids absent from the catalog. When set,
	// CostUSD and Usage are zero because the lookup failed, not because the
	// tokens were free.
	MissingModels []string
}

type modelShare struct {
	profile config.ModelProfile
	share   float64
}

// TokenCost prices baseTokens against the configured model(s).
//
// outputPercentage (0-100) is the output share of the effective tokens;
// cacheRatio (0-1) is the fraction of both input and output served from
// cache. With a secondary model the tokens are split by ModelRatio and the
// two costs summed.
func (e *Engine) TokenCost(
	baseTokens,
	outputPercentage,
	cacheRatio float64,
	llm model.LLMConfig,
	global model.GlobalParameters,
) TokenCost {
	primary, ok := e.catalog.Lookup(llm.PrimaryModelID)
	if !ok {
		e.logger.Warn("primary model not in catalog, costing as zero", "model", llm.PrimaryModelID)
		return TokenCost{MissingModels: []string{llm.PrimaryModelID}}
	}

	shares := []modelShare{{profile: primary, share: 1}}
	if llm.HasSecondary() {
		secondary, ok := e.catalog.Lookup(llm.SecondaryModelID)
		if !ok {
			e.logger.Warn("secondary model not in catalog, costing as zero", "model", llm.SecondaryModelID)
			return TokenCost{MissingModels: []string{llm.SecondaryModelID}}
		}
		ratio := clamp(model.FloatOr(llm.ModelRatio, 1), 0, 1)
		shares = []modelShare{
			{profile: primary, share: ratio},
			{profile: secondary, share: 1 - ratio},
		}
	}

	factor := model.FloatOr(global.AICapabilityFactor, 1)

	var out TokenCost
	for _, s := range shares {
		effective := baseTokens * s.share * s.profile.CapabilityMultiplier * factor
		cost, usage := modelTokenCost(s.profile, effective, outputPercentage, cacheRatio)
		out.CostUSD += cost
		out.Usage = out.Usage.Add(usage)
	}
	out.Usage.EffectiveTotal = out.Usage.Input + out.Usage.Output

	return out
}

// modelTokenCost prices effectiveTokens against a single profile.
func modelTokenCost(p config.ModelProfile, effectiveTokens, outputPercentage, cacheRatio float64) (float64, model.TokenUsage) {
	// Output is rounded; input takes the remainder so the total is preserved.
	outputTokens := math.Round(effectiveTokens * outputPercentage / 100)
	inputTokens := effectiveTokens - outputTokens

	cachedInput := math.Round(inputTokens * cacheRatio)
	uncachedInput := inputTokens - cachedInput
	cachedOutput := math.Round(outputTokens * cacheRatio)
	uncachedOutput := outputTokens - cachedOutput

	// Uncached input is billed at the input rate and again at the cache-write
	// rate: first use populates the cache.
	cost := uncachedInput * p.InputPerMTok / 1_000_000
	cost += cachedInput * p.CacheReadPerMTok / 1_000_000
	cost += uncachedInput * p.CacheWritePerMTok / 1_000_000
	cost += uncachedOutput * p.OutputPerMTok / 1_000_000
	cost += cachedOutput * p.CacheReadPerMTok / 1_000_000

	usage := model.TokenUsage{
		Input:      inputTokens,
		Output:     outputTokens,
		CacheWrite: uncachedInput,
		CacheRead:  cachedInput + cachedOutput,
	}
	usage.EffectiveTotal = usage.Input + usage.Output

	return currency.Round(cost, costPlaces), usage
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
