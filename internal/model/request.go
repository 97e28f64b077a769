// Package model defines the request and result types shared by the
// calculation engine and its collaborators.
package model

// ProjectType selects which parts of the estimate are computed.
type ProjectType string

// Project types accepted in a CalculationRequest.
const (
	ProjectOneOff  ProjectType = "oneoff"
	ProjectOngoing ProjectType = "ongoing"
	ProjectBoth    ProjectType = "both"
)

// IncludesOneOff reports whether the one-off project estimate applies.
func (p ProjectType) IncludesOneOff() bool {
	return p == ProjectOneOff || p == ProjectBoth
}

// IncludesOngoing reports whether the ongoing usage estimate applies.
func (p ProjectType) IncludesOngoing() bool {
	return p == ProjectOngoing || p == ProjectBoth
}

// Valid reports whether p is one of the known project types.
func (p ProjectType) Valid() bool {
	return p == ProjectOneOff || p == ProjectOngoing || p == ProjectBoth
}

// CalculationRequest is the validated input to the engine.
type CalculationRequest struct {
	ProjectType   ProjectType        `json:"projectType" yaml:"projectType"`
	GlobalParams  GlobalParameters   `json:"globalParams" yaml:"globalParams"`
	ModelConfig   LLMConfig          `json:"modelConfig" yaml:"modelConfig"`
	ProjectParams *ProjectParameters `json:"projectParams,omitempty" yaml:"projectParams,omitempty"`
	TeamParams    *TeamParameters    `json:"teamParams,omitempty" yaml:"teamParams,omitempty"`
	ProductParams *ProductParameters `json:"productParams,omitempty" yaml:"productParams,omitempty"`
}

// GlobalParameters apply to every part of the calculation.
type GlobalParameters struct {
	// CurrencyRate converts between USD and AUD: usd = aud * rate.
	CurrencyRate        float64  `json:"currencyRate" yaml:"currencyRate"`
	AICapabilityFactor  *float64 `json:"aiCapabilityFactor,omitempty" yaml:"aiCapabilityFactor,omitempty"`
	TotalCostMultiplier *float64 `json:"totalCostMultiplier,omitempty" yaml:"totalCostMultiplier,omitempty"`

	CustomerName       string `json:"customerName,omitempty" yaml:"customerName,omitempty"`
	ProjectName        string `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	ProjectDescription string `json:"projectDescription,omitempty" yaml:"projectDescription,omitempty"`
	DisclaimerText     string `json:"disclaimerText,omitempty" yaml:"disclaimerText,omitempty"`
}

// LLMConfig selects the model (or pair of models) tokens are billed against.
type LLMConfig struct {
	PrimaryModelID   string `json:"primaryModelId" yaml:"primaryModelId"`
	SecondaryModelID string `json:"secondaryModelId,omitempty" yaml:"secondaryModelId,omitempty"`
	// ModelRatio is the share of tokens routed to the primary model.
	// Ignored when no secondary model is set.
	ModelRatio *float64 `json:"modelRatio,omitempty" yaml:"modelRatio,omitempty"`
}

// HasSecondary reports whether a secondary model is configured.
func (c LLMConfig) HasSecondary() bool {
	return c.SecondaryModelID != ""
}

// ProjectParameters describe a one-off project.
type ProjectParameters struct {
	ManualDevHours float64 `json:"manualDevHours" yaml:"manualDevHours"`
	// AverageHourlyRate is expressed in AUD.
	AverageHourlyRate     float64  `json:"averageHourlyRate" yaml:"averageHourlyRate"`
	AgenticMultiplier     float64  `json:"agenticMultiplier" yaml:"agenticMultiplier"`
	HumanGuidanceTime     *float64 `json:"humanGuidanceTime,omitempty" yaml:"humanGuidanceTime,omitempty"`
	AIProcessingTime      *float64 `json:"aiProcessingTime,omitempty" yaml:"aiProcessingTime,omitempty"`
	ProjectAISetupTime    *float64 `json:"projectAiSetupTime,omitempty" yaml:"projectAiSetupTime,omitempty"`
	OutputTokenPercentage *float64 `json:"outputTokenPercentage,omitempty" yaml:"outputTokenPercentage,omitempty"`
	CachedTokenPercentage *float64 `json:"cachedTokenPercentage,omitempty" yaml:"cachedTokenPercentage,omitempty"`
	TotalProjectTokens    float64  `json:"totalProjectTokens" yaml:"totalProjectTokens"`
}

// TeamParameters describe ongoing token usage by a development team.
type TeamParameters struct {
	NumberOfDevs       float64  `json:"numberOfDevs" yaml:"numberOfDevs"`
	TokensPerDevPerDay float64  `json:"tokensPerDevPerDay" yaml:"tokensPerDevPerDay"`
	AgenticMultiplier  *float64 `json:"agenticMultiplier,omitempty" yaml:"agenticMultiplier,omitempty"`
	AverageHourlyRate  *float64 `json:"averageHourlyRate,omitempty" yaml:"averageHourlyRate,omitempty"`
}

// ProductParameters describe ongoing token usage by deployed applications.
type ProductParameters struct {
	TokensPerDayOngoing   float64  `json:"tokensPerDayOngoing" yaml:"tokensPerDayOngoing"`
	NumberOfApps          float64  `json:"numberOfApps" yaml:"numberOfApps"`
	OutputTokenPercentage *float64 `json:"outputTokenPercentage,omitempty" yaml:"outputTokenPercentage,omitempty"`
	CachedTokenPercentage *float64 `json:"cachedTokenPercentage,omitempty" yaml:"cachedTokenPercentage,omitempty"`
}

// Float returns a pointer to v. Handy for optional request fields.
func Float(v float64) *float64 {
	return &v
}

// FloatOr dereferences p, returning def when p is nil.
func FloatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
