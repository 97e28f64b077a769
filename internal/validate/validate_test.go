package validate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/agentcost/internal/model"
)

func validBoth() model.CalculationRequest {
	return model.CalculationRequest{
		ProjectType:  model.ProjectBoth,
		GlobalParams: model.GlobalParameters{CurrencyRate: 0.65},
		ModelConfig:  model.LLMConfig{PrimaryModelID: "claude-sonnet-4-5"},
		ProjectParams: &model.ProjectParameters{
			ManualDevHours:        120,
			AverageHourlyRate:     150,
			AgenticMultiplier:     3,
			HumanGuidanceTime:     model.Float(12),
			OutputTokenPercentage: model.Float(80),
			CachedTokenPercentage: model.Float(60),
			TotalProjectTokens:    5_000_000,
		},
		TeamParams:    &model.TeamParameters{NumberOfDevs: 4, TokensPerDevPerDay: 250_000},
		ProductParams: &model.ProductParameters{TokensPerDayOngoing: 100_000, NumberOfApps: 1},
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validate.Error", err)
	}
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestRequestValid(t *testing.T) {
	if err := Request(validBoth()); err != nil {
		t.Fatalf("Request() = %v, want nil", err)
	}
}

func TestRequestFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CalculationRequest)
		field  string
	}{
		{"unknown type", func(r *model.CalculationRequest) { r.ProjectType = "weekly" }, "projectType"},
		{"zero rate", func(r *model.CalculationRequest) { r.GlobalParams.CurrencyRate = 0 }, "globalParams.currencyRate"},
		{"nan rate", func(r *model.CalculationRequest) { r.GlobalParams.CurrencyRate = math.NaN() }, "globalParams.currencyRate"},
		{"no model", func(r *model.CalculationRequest) { r.ModelConfig.PrimaryModelID = " " }, "modelConfig.primaryModelId"},
		{"ratio above one", func(r *model.CalculationRequest) { r.ModelConfig.ModelRatio = model.Float(1.2) }, "modelConfig.modelRatio"},
		{"zero hours", func(r *model.CalculationRequest) { r.ProjectParams.ManualDevHours = 0 }, "projectParams.manualDevHours"},
		{"negative guidance", func(r *model.CalculationRequest) { r.ProjectParams.HumanGuidanceTime = model.Float(-1) }, "projectParams.humanGuidanceTime"},
		{"percentage over 100", func(r *model.CalculationRequest) { r.ProjectParams.OutputTokenPercentage = model.Float(101) }, "projectParams.outputTokenPercentage"},
		{"negative devs", func(r *model.CalculationRequest) { r.TeamParams.NumberOfDevs = -2 }, "teamParams.numberOfDevs"},
		{"zero apps", func(r *model.CalculationRequest) { r.ProductParams.NumberOfApps = 0 }, "productParams.numberOfApps"},
		{"cached percentage negative", func(r *model.CalculationRequest) { r.ProductParams.CachedTokenPercentage = model.Float(-5) }, "productParams.cachedTokenPercentage"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validBoth()
			tc.mutate(&req)
			names := fieldNames(t, Request(req))
			if len(names) != 1 || names[0] != tc.field {
				t.Fatalf("fields = %v, want [%s]", names, tc.field)
			}
		})
	}
}

func TestRequestCrossFieldRules(t *testing.T) {
	oneoff := validBoth()
	oneoff.ProjectType = model.ProjectOneOff
	oneoff.ProjectParams = nil
	if names := fieldNames(t, Request(oneoff)); len(names) != 1 || names[0] != "projectParams" {
		t.Fatalf("oneoff without projectParams: fields = %v", names)
	}

	ongoing := validBoth()
	ongoing.ProjectType = model.ProjectOngoing
	ongoing.TeamParams = nil
	ongoing.ProductParams = nil
	if names := fieldNames(t, Request(ongoing)); len(names) != 1 || names[0] != "teamParams" {
		t.Fatalf("ongoing without usage params: fields = %v", names)
	}

	productOnly := validBoth()
	productOnly.ProjectType = model.ProjectOngoing
	productOnly.TeamParams = nil
	if err := Request(productOnly); err != nil {
		t.Fatalf("ongoing with product params only: %v", err)
	}
}

func TestRequestCollectsEveryField(t *testing.T) {
	req := validBoth()
	req.GlobalParams.CurrencyRate = -1
	req.ProjectParams.AverageHourlyRate = 0
	req.TeamParams.TokensPerDevPerDay = -1

	err := Request(req)
	names := fieldNames(t, err)
	if len(names) != 3 {
		t.Fatalf("fields = %v, want 3", names)
	}
	if !strings.Contains(err.Error(), "globalParams.currencyRate: must be greater than 0") {
		t.Fatalf("Error() = %q", err.Error())
	}
}
