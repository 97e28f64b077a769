// Package validate checks calculation requests before they reach the engine.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/agentcost/internal/model"
)

// FieldError is a problem with one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error collects every field problem found in a request.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

type checker struct {
	fields []FieldError
}

func (c *checker) fail(field, format string, args ...any) {
	c.fields = append(c.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) finite(field string, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.fail(field, "must be a finite number")
		return false
	}
	return true
}

func (c *checker) positive(field string, v float64) {
	if c.finite(field, v) && v <= 0 {
		c.fail(field, "must be greater than 0")
	}
}

func (c *checker) nonNegative(field string, v float64) {
	if c.finite(field, v) && v < 0 {
		c.fail(field, "must be 0 or greater")
	}
}

func (c *checker) between(field string, v, lo, hi float64) {
	if c.finite(field, v) && (v < lo || v > hi) {
		c.fail(field, "must be between %g and %g", lo, hi)
	}
}

func (c *checker) optional(field string, v *float64, check func(string, float64)) {
	if v != nil {
		check(field, *v)
	}
}

// Request returns nil when req is safe to calculate, or an *Error listing
// every offending field.
func Request(req model.CalculationRequest) error {
	var c checker

	if !req.ProjectType.Valid() {
		c.fail("projectType", "must be one of oneoff, ongoing, both")
	}

	g := req.GlobalParams
	c.positive("globalParams.currencyRate", g.CurrencyRate)
	c.optional("globalParams.aiCapabilityFactor", g.AICapabilityFactor, c.positive)
	c.optional("globalParams.totalCostMultiplier", g.TotalCostMultiplier, c.nonNegative)

	m := req.ModelConfig
	if strings.TrimSpace(m.PrimaryModelID) == "" {
		c.fail("modelConfig.primaryModelId", "is required")
	}
	c.optional("modelConfig.modelRatio", m.ModelRatio, func(f string, v float64) { c.between(f, v, 0, 1) })

	if req.ProjectType.IncludesOneOff() && req.ProjectParams == nil {
		c.fail("projectParams", "is required for project type %q", req.ProjectType)
	}
	if req.ProjectType.IncludesOngoing() && req.TeamParams == nil && req.ProductParams == nil {
		c.fail("teamParams", "teamParams or productParams is required for project type %q", req.ProjectType)
	}

	if p := req.ProjectParams; p != nil {
		c.positive("projectParams.manualDevHours", p.ManualDevHours)
		c.positive("projectParams.agenticMultiplier", p.AgenticMultiplier)
		c.positive("projectParams.averageHourlyRate", p.AverageHourlyRate)
		c.nonNegative("projectParams.totalProjectTokens", p.TotalProjectTokens)
		c.optional("projectParams.humanGuidanceTime", p.HumanGuidanceTime, c.nonNegative)
		c.optional("projectParams.aiProcessingTime", p.AIProcessingTime, c.nonNegative)
		c.optional("projectParams.projectAiSetupTime", p.ProjectAISetupTime, c.nonNegative)
		c.optional("projectParams.outputTokenPercentage", p.OutputTokenPercentage, c.percentage)
		c.optional("projectParams.cachedTokenPercentage", p.CachedTokenPercentage, c.percentage)
	}

	if t := req.TeamParams; t != nil {
		c.nonNegative("teamParams.numberOfDevs", t.NumberOfDevs)
		c.nonNegative("teamParams.tokensPerDevPerDay", t.TokensPerDevPerDay)
		c.optional("teamParams.agenticMultiplier", t.AgenticMultiplier, c.positive)
		c.optional("teamParams.averageHourlyRate", t.AverageHourlyRate, c.positive)
	}

	if p := req.ProductParams; p != nil {
		c.nonNegative("productParams.tokensPerDayOngoing", p.TokensPerDayOngoing)
		c.positive("productParams.numberOfApps", p.NumberOfApps)
		c.optional("productParams.outputTokenPercentage", p.OutputTokenPercentage, c.percentage)
		c.optional("productParams.cachedTokenPercentage", p.CachedTokenPercentage, c.percentage)
	}

	if len(c.fields) > 0 {
		return &Error{Fields: c.fields}
	}
	return nil
}

func (c *checker) percentage(field string, v float64) {
	c.between(field, v, 0, 100)
}
