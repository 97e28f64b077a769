package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/agentcost/internal/calculator"
	"github.com/theirongolddev/agentcost/internal/model"
)

func sampleRequest() model.CalculationRequest {
	return model.CalculationRequest{
		ProjectType: model.ProjectBoth,
		GlobalParams: model.GlobalParameters{
			CurrencyRate: 0.65,
			CustomerName: "Acme",
			ProjectName:  "Portal rebuild",
		},
		ModelConfig: model.LLMConfig{PrimaryModelID: "claude-sonnet-4-5"},
		ProjectParams: &model.ProjectParameters{
			ManualDevHours:     400,
			AverageHourlyRate:  180,
			AgenticMultiplier:  3,
			HumanGuidanceTime:  model.Float(20),
			TotalProjectTokens: 30_000_000,
		},
		TeamParams: &model.TeamParameters{NumberOfDevs: 5, TokensPerDevPerDay: 300_000},
	}
}

func sampleResult(t *testing.T, req model.CalculationRequest) *model.CalculationResult {
	t.Helper()
	res, err := calculator.New(nil, nil).Calculate(req)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	return res
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{" Json ", FormatJSON, false},
		{"pdf", "", true},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseFormat(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	req := sampleRequest()
	res := sampleResult(t, req)

	var buf bytes.Buffer
	if err := JSON(&buf, req, res); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.FormState.GlobalParams.CustomerName != "Acme" {
		t.Fatalf("formState customer = %q, want Acme", doc.FormState.GlobalParams.CustomerName)
	}
	if doc.Result.TraditionalCost.AUD != res.TraditionalCost.AUD {
		t.Fatalf("result traditional = %v, want %v", doc.Result.TraditionalCost.AUD, res.TraditionalCost.AUD)
	}
	if len(doc.Result.CalculationSteps) != len(res.CalculationSteps) {
		t.Fatalf("steps = %d, want %d", len(doc.Result.CalculationSteps), len(res.CalculationSteps))
	}
}

func TestJSONInfiniteROI(t *testing.T) {
	req := sampleRequest()
	req.GlobalParams.TotalCostMultiplier = model.Float(0)
	res := sampleResult(t, req)

	var buf bytes.Buffer
	if err := JSON(&buf, req, res); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !math.IsInf(float64(doc.Result.SavingsAnalysis.ROI), 1) {
		t.Fatalf("decoded ROI = %v, want +Inf", doc.Result.SavingsAnalysis.ROI)
	}
}

func TestTextReport(t *testing.T) {
	res := sampleResult(t, sampleRequest())

	var buf bytes.Buffer
	if err := Text(&buf, res); err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Portal rebuild",
		"Acme",
		"One-off Project",
		"Ongoing Usage (AUD)",
		"Token Usage",
		"Calculation steps",
		calculator.DefaultDisclaimer,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestTextReportShowsInfinityAndWarnings(t *testing.T) {
	req := sampleRequest()
	req.GlobalParams.TotalCostMultiplier = model.Float(0)
	req.ModelConfig.PrimaryModelID = "gpt-4o-mini"
	res := sampleResult(t, req)

	var buf bytes.Buffer
	if err := Write(&buf, FormatText, req, res); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "∞") {
		t.Error("report does not render infinite ROI as ∞")
	}
	if !strings.Contains(out, "Gpt 4o Mini is not capable") {
		t.Error("report missing capability warning")
	}
}

func TestTextNilResult(t *testing.T) {
	if err := Text(&bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error for nil result")
	}
}
