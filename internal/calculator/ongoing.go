package calculator

import (
	"github.com/theirongolddev/agentcost/internal/currency"
	"github.com/theirongolddev/agentcost/internal/model"
)

// Billing calendar and fixed usage assumptions for ongoing estimates.
const (
	WorkingDaysPerMonth = 20
	WorkingDaysPerYear  = 240
	HoursPerDay         = 8

	teamOutputPercentage = 80
	teamCacheRatio       = 0.75

	defaultProductOutputPercentage = 80
	defaultProductCachedPercentage = 40
)

// OngoingEstimate is the continuous-usage cost for a team and/or a product.
type OngoingEstimate struct {
	Costs          model.OngoingCosts
	Usage          model.TokenUsage
	TeamCostUSD    float64
	ProductCostUSD float64
	MissingModels  []string
}

// Ongoing estimates daily, monthly and yearly cost for the two usage
// sources. Either source may be nil.
func (e *Engine) Ongoing(
	team *model.TeamParameters,
	product *model.ProductParameters,
	llm model.LLMConfig,
	global model.GlobalParameters,
) OngoingEstimate {
	rate := global.CurrencyRate

	var teamTokens, productTokens float64
	if team != nil {
		teamTokens = team.NumberOfDevs * team.TokensPerDevPerDay
	}
	if product != nil {
		apps := product.NumberOfApps
		if apps <= 0 {
			apps = 1
		}
		productTokens = product.TokensPerDayOngoing * apps
	}

	if teamTokens == 0 && productTokens == 0 {
		zero := currency.Pair(0, rate)
		return OngoingEstimate{
			Costs: model.OngoingCosts{Total: zero, Monthly: zero, Yearly: zero},
		}
	}

	var est OngoingEstimate
	est.Costs.TeamTokens = teamTokens
	est.Costs.ProductTokens = productTokens

	if teamTokens > 0 {
		tc := e.TokenCost(teamTokens, teamOutputPercentage, teamCacheRatio, llm, global)
		est.TeamCostUSD = tc.CostUSD
		est.Usage = est.Usage.Add(tc.Usage)
		est.MissingModels = append(est.MissingModels, tc.MissingModels...)
	}
	if productTokens > 0 {
		outputPct := model.FloatOr(product.OutputTokenPercentage, defaultProductOutputPercentage)
		cachedPct := model.FloatOr(product.CachedTokenPercentage, defaultProductCachedPercentage)
		pc := e.TokenCost(productTokens, outputPct, cachedPct/100, llm, global)
		est.ProductCostUSD = pc.CostUSD
		est.Usage = est.Usage.Add(pc.Usage)
		est.MissingModels = append(est.MissingModels, pc.MissingModels...)
	}

	dailyUSD := est.TeamCostUSD + est.ProductCostUSD
	est.Costs.Total = currency.Pair(dailyUSD, rate)
	est.Costs.Monthly = currency.Pair(dailyUSD*WorkingDaysPerMonth, rate)
	est.Costs.Yearly = currency.Pair(dailyUSD*WorkingDaysPerYear, rate)

	var breakdown model.OngoingBreakdown
	if est.TeamCostUSD > 0 {
		teamCosts := &model.TeamCosts{SourceCosts: periodCosts(est.TeamCostUSD, rate)}
		if team.NumberOfDevs > 0 {
			perDevUSD := est.TeamCostUSD / team.NumberOfDevs
			perDev := currency.Pair(perDevUSD, rate)
			perDevMonthly := currency.Pair(perDevUSD*WorkingDaysPerMonth, rate)
			perDevYearly := currency.Pair(perDevUSD*WorkingDaysPerYear, rate)

			teamCosts.PerDev, teamCosts.PerDevMonthly, teamCosts.PerDevYearly = &perDev, &perDevMonthly, &perDevYearly
			est.Costs.PerDev, est.Costs.PerDevMonthly, est.Costs.PerDevYearly = &perDev, &perDevMonthly, &perDevYearly
		}
		breakdown.Team = teamCosts
	}
	if est.ProductCostUSD > 0 {
		productCosts := periodCosts(est.ProductCostUSD, rate)
		breakdown.Product = &productCosts
	}
	if breakdown.Team != nil || breakdown.Product != nil {
		est.Costs.Breakdown = &breakdown
	}

	if team != nil && team.AgenticMultiplier != nil && team.AverageHourlyRate != nil {
		est.Costs.DailyROI = dailyROI(*team, est.TeamCostUSD, rate)
	}

	est.Usage.EffectiveTotal = est.Usage.Input + est.Usage.Output
	return est
}

// dailyROI compares a team working manually against the same team working
// agentically. Only team inference counts; product spend says nothing about
// developer productivity.
func dailyROI(team model.TeamParameters, teamInferenceUSD, rate float64) *model.DailyROI {
	hourlyUSD := currency.ToPrimaryFromSecondary(*team.AverageHourlyRate, rate)
	traditionalUSD := team.NumberOfDevs * HoursPerDay * hourlyUSD

	humanUSD := traditionalUSD
	if *team.AgenticMultiplier > 0 {
		humanUSD = traditionalUSD / *team.AgenticMultiplier
	}
	agenticUSD := teamInferenceUSD + humanUSD

	var roi float64
	if agenticUSD != 0 {
		roi = (traditionalUSD - agenticUSD) / agenticUSD * 100
	}

	return &model.DailyROI{
		TraditionalDailyCost: currency.Pair(traditionalUSD, rate),
		AgenticDailyCost:     currency.Pair(agenticUSD, rate),
		ROI:                  model.Percent(roi),
	}
}

func periodCosts(dailyUSD, rate float64) model.SourceCosts {
	return model.SourceCosts{
		Total:   currency.Pair(dailyUSD, rate),
		Monthly: currency.Pair(dailyUSD*WorkingDaysPerMonth, rate),
		Yearly:  currency.Pair(dailyUSD*WorkingDaysPerYear, rate),
	}
}
