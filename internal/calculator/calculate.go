package calculator

import (
	"errors"
	"math"

	"github.com/theirongolddev/agentcost/internal/currency"
	"github.com/theirongolddev/agentcost/internal/model"
)

// ErrInvalidCurrencyRate is the only fatal calculation error.
//
//nolint:staticcheck // the message is part of the API contract
var ErrInvalidCurrencyRate = errors.New("Invalid currency exchange rate provided.")

// FTEHoursPerMonth is one developer's monthly hours (8h x 20 days).
const FTEHoursPerMonth = HoursPerDay * WorkingDaysPerMonth

// DefaultDisclaimer is used when a request carries no disclaimer text.
const DefaultDisclaimer = "This estimate is indicative only. It is based on the parameters supplied " +
	"and published model pricing at the time of calculation; actual costs will vary with usage " +
	"patterns, model pricing changes, and project complexity."

// Calculate runs every estimate the request asks for and assembles the
// result. It fails only when the currency rate is not a positive number.
func (e *Engine) Calculate(req model.CalculationRequest) (*model.CalculationResult, error) {
	g := req.GlobalParams
	rate := g.CurrencyRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return nil, ErrInvalidCurrencyRate
	}

	res := &model.CalculationResult{
		ProjectType:        req.ProjectType,
		CustomerName:       g.CustomerName,
		ProjectName:        g.ProjectName,
		ProjectDescription: g.ProjectDescription,
		DisclaimerText:     g.DisclaimerText,
		CurrencyRate:       rate,
		PrimaryModelID:     req.ModelConfig.PrimaryModelID,
		SecondaryModelID:   req.ModelConfig.SecondaryModelID,
	}
	if res.DisclaimerText == "" {
		res.DisclaimerText = DefaultDisclaimer
	}

	steps := newStepLog(rate)
	var (
		usage      model.TokenUsage
		usageSet   bool
		agentic    *AgenticEstimate
		trad       *TraditionalEstimate
		agenticUse bool
	)

	if req.ProjectType.IncludesOneOff() && req.ProjectParams != nil {
		p := *req.ProjectParams
		agenticUse = true

		t := Traditional(p.ManualDevHours, p.AverageHourlyRate, rate)
		trad = &t
		res.TraditionalCost = &t.Cost
		res.TraditionalTime = model.Float(t.Hours)

		a := e.Agentic(p, req.ModelConfig, g)
		agentic = &a
		res.AgenticCost = &a.Cost
		res.AgenticTime = model.Float(a.Hours)
		usage = usage.Add(a.Tokens.Usage)
		usageSet = true
		res.MissingModels = appendUnique(res.MissingModels, a.Tokens.MissingModels...)

		hourlyUSD := currency.ToPrimaryFromSecondary(p.AverageHourlyRate, rate)
		if p.HumanGuidanceTime != nil {
			res.HumanGuidanceTime = model.Float(*p.HumanGuidanceTime)
			cost := currency.Pair(*p.HumanGuidanceTime*hourlyUSD, rate)
			res.HumanGuidanceCost = &cost
		}
		if p.AIProcessingTime != nil {
			res.AIProcessingTime = model.Float(*p.AIProcessingTime)
		}
		if p.ProjectAISetupTime != nil {
			res.AISetupTime = model.Float(*p.ProjectAISetupTime)
			cost := currency.Pair(*p.ProjectAISetupTime*hourlyUSD, rate)
			res.AISetupCost = &cost
		}
		res.TotalProjectTime = model.Float(a.Hours +
			model.FloatOr(p.HumanGuidanceTime, 0) +
			model.FloatOr(p.AIProcessingTime, 0) +
			model.FloatOr(p.ProjectAISetupTime, 0))

		steps.project(p, t, a, res)
	}

	if req.ProjectParams != nil {
		hourlyUSD := currency.ToPrimaryFromSecondary(req.ProjectParams.AverageHourlyRate, rate)
		fte := currency.Pair(hourlyUSD*FTEHoursPerMonth, rate)
		res.FTEEquivalentCost = &fte
		steps.fte(req.ProjectParams.AverageHourlyRate, fte)
	}

	if req.ProjectType.IncludesOngoing() && (req.TeamParams != nil || req.ProductParams != nil) {
		o := e.Ongoing(req.TeamParams, req.ProductParams, req.ModelConfig, g)
		res.DailyCosts = &o.Costs
		usage = usage.Add(o.Usage)
		usageSet = true
		res.MissingModels = appendUnique(res.MissingModels, o.MissingModels...)
		if req.TeamParams != nil {
			agenticUse = true
		}

		steps.ongoing(req.TeamParams, req.ProductParams, o)
	}

	if usageSet {
		res.TokenUsage = &usage
	}

	if trad != nil && agentic != nil && res.TraditionalTime != nil && res.AgenticTime != nil &&
		trad.Cost.USD > 0 && agentic.Cost.Total.USD >= 0 {
		res.SavingsAnalysis = savings(*trad, *agentic, req.ProjectParams.AverageHourlyRate, rate)
		steps.savings(*res.SavingsAnalysis)
	}

	if agenticUse {
		res.ModelWarnings = e.modelWarnings(req.ModelConfig)
	}

	res.ChartData = chartData(res)
	res.CalculationSteps = steps.lines

	e.logger.Debug("calculation complete",
		"project_type", req.ProjectType,
		"primary_model", req.ModelConfig.PrimaryModelID,
		"steps", len(res.CalculationSteps),
	)

	return res, nil
}

func savings(trad TraditionalEstimate, agentic AgenticEstimate, hourlyRate, rate float64) *model.SavingsAnalysis {
	tradUSD := trad.Cost.USD
	agenticUSD := agentic.Cost.Total.USD

	costSavingsUSD := tradUSD - agenticUSD
	timeSavings := trad.Hours - agentic.Hours

	var timeValueUSD float64
	if hourlyRate > 0 {
		timeValueUSD = timeSavings * currency.ToPrimaryFromSecondary(hourlyRate, rate)
	}

	// A free agentic build has unbounded ROI; renderers decide how to show it.
	roi := math.Inf(1)
	if agenticUSD != 0 {
		roi = (costSavingsUSD + timeValueUSD) / agenticUSD * 100
	}

	return &model.SavingsAnalysis{
		CostSavings:       currency.Pair(costSavingsUSD, rate),
		TimeSavings:       timeSavings,
		TimeSavingsValue:  currency.Pair(timeValueUSD, rate),
		ROI:               model.Percent(roi),
		PercentageSavings: costSavingsUSD / tradUSD * 100,
	}
}

func (e *Engine) modelWarnings(llm model.LLMConfig) []string {
	var warnings []string
	if w := e.catalog.CapabilityWarning(llm.PrimaryModelID); w != "" {
		warnings = append(warnings, w)
	}
	if llm.HasSecondary() {
		if w := e.catalog.CapabilityWarning(llm.SecondaryModelID); w != "" {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

func chartData(res *model.CalculationResult) *model.ChartData {
	var cd model.ChartData
	point := func(label string, p model.CurrencyPair) model.ChartPoint {
		return model.ChartPoint{Label: label, USD: p.USD, AUD: p.AUD}
	}

	if res.TraditionalCost != nil && res.AgenticCost != nil {
		cd.CostComparison = []model.ChartPoint{
			point("Traditional", *res.TraditionalCost),
			point("Agentic", res.AgenticCost.Total),
		}
		cd.AgenticSplit = []model.ChartPoint{
			point("Inference", res.AgenticCost.Inference),
			point("Human", res.AgenticCost.Human),
		}
	}

	if dc := res.DailyCosts; dc != nil {
		cd.OngoingPeriods = []model.ChartPoint{
			point("Daily", dc.Total),
			point("Monthly", dc.Monthly),
			point("Yearly", dc.Yearly),
		}
		if b := dc.Breakdown; b != nil {
			if b.Team != nil {
				cd.OngoingSources = append(cd.OngoingSources, point("Team", b.Team.Total))
			}
			if b.Product != nil {
				cd.OngoingSources = append(cd.OngoingSources, point("Product", b.Product.Total))
			}
		}
	}

	if cd.CostComparison == nil && cd.OngoingPeriods == nil {
		return nil
	}
	return &cd
}

func appendUnique(dst []string, ids ...string) []string {
	for _, id := range ids {
		found := false
		for _, have := range dst {
			if have == id {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, id)
		}
	}
	return dst
}
