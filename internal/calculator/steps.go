package calculator

import (
	"fmt"
	"math"

	"github.com/theirongolddev/agentcost/internal/model"
)

// Step prefixes group the audit trail by section.
const (
	StepPrefixProject = "Project: "
	StepPrefixOngoing = "Ongoing: "
	StepPrefixSavings = "Savings: "
)

// stepLog collects the human-readable audit trail of a calculation.
type stepLog struct {
	rate  float64
	lines []string
}

func newStepLog(rate float64) *stepLog {
	return &stepLog{rate: rate, lines: []string{}}
}

func (s *stepLog) add(prefix, format string, args ...any) {
	s.lines = append(s.lines, prefix+fmt.Sprintf(format, args...))
}

func (s *stepLog) project(p model.ProjectParameters, t TraditionalEstimate, a AgenticEstimate, res *model.CalculationResult) {
	s.add(StepPrefixProject, "traditional cost = %s h x %s/h = %s",
		hours(p.ManualDevHours), aud(p.AverageHourlyRate), pair(t.Cost))
	s.add(StepPrefixProject, "effective multiplier = %s / speed %s = %s",
		num(p.AgenticMultiplier), num(a.SpeedMultiplier), num(a.EffectiveMultiplier))
	s.add(StepPrefixProject, "agentic hours = %s h / %s = %s h",
		hours(p.ManualDevHours), num(a.EffectiveMultiplier), hours(a.Hours))
	s.add(StepPrefixProject, "inference tokens = %s effective (%s input, %s output)",
		tokens(a.Tokens.Usage.EffectiveTotal), tokens(a.Tokens.Usage.Input), tokens(a.Tokens.Usage.Output))
	s.add(StepPrefixProject, "inference cost = %s", pair(a.Cost.Inference))
	s.add(StepPrefixProject, "human cost = %s h x %s/h = %s",
		hours(a.Hours), aud(p.AverageHourlyRate), pair(a.Cost.Human))
	s.add(StepPrefixProject, "agentic total = inference + human = %s", pair(a.Cost.Total))

	if res.HumanGuidanceCost != nil {
		s.add(StepPrefixProject, "human guidance cost = %s h x %s/h = %s",
			hours(*res.HumanGuidanceTime), aud(p.AverageHourlyRate), pair(*res.HumanGuidanceCost))
	}
	if res.AIProcessingTime != nil {
		s.add(StepPrefixProject, "AI processing time = %s h", hours(*res.AIProcessingTime))
	}
	if res.AISetupCost != nil {
		s.add(StepPrefixProject, "AI setup cost = %s h x %s/h = %s",
			hours(*res.AISetupTime), aud(p.AverageHourlyRate), pair(*res.AISetupCost))
	}
	s.add(StepPrefixProject, "total project time = %s h", hours(*res.TotalProjectTime))
}

func (s *stepLog) ongoing(team *model.TeamParameters, product *model.ProductParameters, o OngoingEstimate) {
	if team != nil {
		s.add(StepPrefixOngoing, "team tokens/day = %s devs x %s = %s",
			num(team.NumberOfDevs), tokens(team.TokensPerDevPerDay), tokens(o.Costs.TeamTokens))
	}
	if product != nil {
		s.add(StepPrefixOngoing, "product tokens/day = %s x %s apps = %s",
			tokens(product.TokensPerDayOngoing), num(product.NumberOfApps), tokens(o.Costs.ProductTokens))
	}
	if b := o.Costs.Breakdown; b != nil {
		if b.Team != nil {
			s.add(StepPrefixOngoing, "team daily cost = %s", pair(b.Team.Total))
			if b.Team.PerDev != nil {
				s.add(StepPrefixOngoing, "per developer daily cost = %s", pair(*b.Team.PerDev))
			}
		}
		if b.Product != nil {
			s.add(StepPrefixOngoing, "product daily cost = %s", pair(b.Product.Total))
		}
	}
	s.add(StepPrefixOngoing, "daily cost = %s", pair(o.Costs.Total))
	s.add(StepPrefixOngoing, "monthly cost = daily x %d = %s", WorkingDaysPerMonth, pair(o.Costs.Monthly))
	s.add(StepPrefixOngoing, "yearly cost = daily x %d = %s", WorkingDaysPerYear, pair(o.Costs.Yearly))
	if r := o.Costs.DailyROI; r != nil {
		s.add(StepPrefixOngoing, "daily ROI = (%s - %s) / %s = %s",
			aud(r.TraditionalDailyCost.AUD), aud(r.AgenticDailyCost.AUD), aud(r.AgenticDailyCost.AUD), percent(float64(r.ROI)))
	}
}

func (s *stepLog) savings(sa model.SavingsAnalysis) {
	s.add(StepPrefixSavings, "cost savings = %s", pair(sa.CostSavings))
	s.add(StepPrefixSavings, "time savings = %s h worth %s", hours(sa.TimeSavings), pair(sa.TimeSavingsValue))
	s.add(StepPrefixSavings, "ROI = %s", percent(float64(sa.ROI)))
	s.add(StepPrefixSavings, "percentage savings = %s", percent(sa.PercentageSavings))
}

func (s *stepLog) fte(hourlyRate float64, cost model.CurrencyPair) {
	s.add(StepPrefixProject, "FTE equivalent monthly cost = %s/h x %d h = %s",
		aud(hourlyRate), FTEHoursPerMonth, pair(cost))
}

func pair(p model.CurrencyPair) string {
	return fmt.Sprintf("A$%.2f (US$%.2f)", p.AUD, p.USD)
}

func aud(v float64) string { return fmt.Sprintf("A$%.2f", v) }

func hours(v float64) string { return fmt.Sprintf("%.2f", v) }

func num(v float64) string { return fmt.Sprintf("%g", v) }

func tokens(v float64) string { return fmt.Sprintf("%.0f", v) }

func percent(v float64) string {
	if math.IsInf(v, 1) {
		return "∞%"
	}
	return fmt.Sprintf("%.1f%%", v)
}
