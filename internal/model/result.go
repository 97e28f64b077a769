package model

import (
	"encoding/json"
	"math"
)

// CurrencyPair holds one amount in both currencies.
type CurrencyPair struct {
	USD float64 `json:"usd"`
	AUD float64 `json:"aud"`
}

// Add returns the field-wise sum of two pairs.
func (c CurrencyPair) Add(o CurrencyPair) CurrencyPair {
	return CurrencyPair{USD: c.USD + o.USD, AUD: c.AUD + o.AUD}
}

// Percent is a percentage that may legitimately be infinite (an ROI against
// a zero cost). JSON has no infinity, so non-finite values encode as null.
type Percent float64

// MarshalJSON implements json.Marshaler.
func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler. null decodes as +Inf, the only
// non-finite value the engine produces.
func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Percent(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Percent(f)
	return nil
}

// TokenUsage counts tokens by billing category.
type TokenUsage struct {
	Input      float64 `json:"input"`
	Output     float64 `json:"output"`
	CacheWrite float64 `json:"cacheWrite"`
	CacheRead  float64 `json:"cacheRead"`
	// EffectiveTotal is Input + Output; cache categories are excluded.
	EffectiveTotal float64 `json:"effectiveTotal"`
}

// Add returns the field-wise sum of two usages.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{
		Input:          u.Input + o.Input,
		Output:         u.Output + o.Output,
		CacheWrite:     u.CacheWrite + o.CacheWrite,
		CacheRead:      u.CacheRead + o.CacheRead,
		EffectiveTotal: u.EffectiveTotal + o.EffectiveTotal,
	}
}

// IsZero reports whether no tokens were counted.
func (u TokenUsage) IsZero() bool {
	return u == TokenUsage{}
}

// AgenticCost breaks the agentic project cost into its parts.
type AgenticCost struct {
	Inference CurrencyPair `json:"inference"`
	Human     CurrencyPair `json:"human"`
	Total     CurrencyPair `json:"total"`
}

// SavingsAnalysis compares the traditional and agentic one-off estimates.
type SavingsAnalysis struct {
	CostSavings       CurrencyPair `json:"costSavings"`
	TimeSavings       float64      `json:"timeSavings"`
	TimeSavingsValue  CurrencyPair `json:"timeSavingsValue"`
	ROI               Percent      `json:"roi"`
	PercentageSavings float64      `json:"percentageSavings"`
}

// SourceCosts is the daily/monthly/yearly cost of one ongoing source.
type SourceCosts struct {
	Total   CurrencyPair `json:"total"`
	Monthly CurrencyPair `json:"monthly"`
	Yearly  CurrencyPair `json:"yearly"`
}

// TeamCosts adds per-developer figures to the team source.
type TeamCosts struct {
	SourceCosts
	PerDev        *CurrencyPair `json:"perDev,omitempty"`
	PerDevMonthly *CurrencyPair `json:"perDevMonthly,omitempty"`
	PerDevYearly  *CurrencyPair `json:"perDevYearly,omitempty"`
}

// OngoingBreakdown separates team and product spend. A source is omitted when
// it is absent or cost nothing.
type OngoingBreakdown struct {
	Team    *TeamCosts   `json:"team,omitempty"`
	Product *SourceCosts `json:"product,omitempty"`
}

// DailyROI compares a team's traditional and agentic daily cost.
type DailyROI struct {
	TraditionalDailyCost CurrencyPair `json:"traditionalDailyCost"`
	AgenticDailyCost     CurrencyPair `json:"agenticDailyCost"`
	ROI                  Percent      `json:"roi"`
}

// OngoingCosts is the continuous-usage estimate.
type OngoingCosts struct {
	Total         CurrencyPair      `json:"total"`
	Monthly       CurrencyPair      `json:"monthly"`
	Yearly        CurrencyPair      `json:"yearly"`
	PerDev        *CurrencyPair     `json:"perDev,omitempty"`
	PerDevMonthly *CurrencyPair     `json:"perDevMonthly,omitempty"`
	PerDevYearly  *CurrencyPair     `json:"perDevYearly,omitempty"`
	Breakdown     *OngoingBreakdown `json:"breakdown,omitempty"`
	DailyROI      *DailyROI         `json:"dailyROI,omitempty"`
	TeamTokens    float64           `json:"teamTokens"`
	ProductTokens float64           `json:"productTokens"`
}

// ChartPoint is one bar of a report chart.
type ChartPoint struct {
	Label string  `json:"label"`
	USD   float64 `json:"usd"`
	AUD   float64 `json:"aud"`
}

// ChartData is the visualisation dataset handed to report renderers.
type ChartData struct {
	CostComparison []ChartPoint `json:"costComparison,omitempty"`
	AgenticSplit   []ChartPoint `json:"agenticSplit,omitempty"`
	OngoingPeriods []ChartPoint `json:"ongoingPeriods,omitempty"`
	OngoingSources []ChartPoint `json:"ongoingSources,omitempty"`
}

// CalculationResult is the engine output. Every section is optional and only
// present when its inputs were supplied and relevant to the project type.
type CalculationResult struct {
	ProjectType        ProjectType `json:"projectType"`
	CustomerName       string      `json:"customerName,omitempty"`
	ProjectName        string      `json:"projectName,omitempty"`
	ProjectDescription string      `json:"projectDescription,omitempty"`
	DisclaimerText     string      `json:"disclaimerText"`
	CurrencyRate       float64     `json:"currencyRate"`
	PrimaryModelID     string      `json:"primaryModelId"`
	SecondaryModelID   string      `json:"secondaryModelId,omitempty"`

	TraditionalCost   *CurrencyPair    `json:"traditionalCost,omitempty"`
	TraditionalTime   *float64         `json:"traditionalTime,omitempty"`
	AgenticCost       *AgenticCost     `json:"agenticCost,omitempty"`
	AgenticTime       *float64         `json:"agenticTime,omitempty"`
	HumanGuidanceTime *float64         `json:"humanGuidanceTime,omitempty"`
	HumanGuidanceCost *CurrencyPair    `json:"humanGuidanceCost,omitempty"`
	AIProcessingTime  *float64         `json:"aiProcessingTime,omitempty"`
	AISetupTime       *float64         `json:"projectAiSetupTime,omitempty"`
	AISetupCost       *CurrencyPair    `json:"aiSetupCost,omitempty"`
	TotalProjectTime  *float64         `json:"totalProjectTime,omitempty"`
	SavingsAnalysis   *SavingsAnalysis `json:"savingsAnalysis,omitempty"`
	FTEEquivalentCost *CurrencyPair    `json:"fteEquivalentCost,omitempty"`

	DailyCosts *OngoingCosts `json:"dailyCosts,omitempty"`
	TokenUsage *TokenUsage   `json:"tokenUsage,omitempty"`

	ModelWarnings    []string   `json:"modelWarnings,omitempty"`
	MissingModels    []string   `json:"missingModels,omitempty"`
	ChartData        *ChartData `json:"chartData,omitempty"`
	CalculationSteps []string   `json:"calculationSteps"`
}
