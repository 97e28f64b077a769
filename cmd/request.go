package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/config"
	"github.com/theirongolddev/agentcost/internal/model"
	"github.com/theirongolddev/agentcost/internal/validate"
)

// requestFlags are shared by the commands that build a request.
type requestFlags struct {
	file           string
	template       string
	rate           float64
	primaryModel   string
	secondaryModel string
	ratio          float64
	projectType    string
}

func (f *requestFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.file, "file", "f", "", "Request JSON file (a JSON export is accepted too)")
	c.Flags().StringVarP(&f.template, "template", "t", "", "Start from a named template")
	c.Flags().Float64Var(&f.rate, "rate", 0, "Currency rate, usd = aud * rate (default from config)")
	c.Flags().StringVarP(&f.primaryModel, "model", "m", "", "Primary model id (default from config)")
	c.Flags().StringVar(&f.secondaryModel, "secondary-model", "", "Secondary model id")
	c.Flags().Float64Var(&f.ratio, "ratio", 0, "Share of tokens routed to the primary model (0..1)")
	c.Flags().StringVar(&f.projectType, "type", "", "Project type: oneoff, ongoing or both")
}

// readRequestFile decodes a request or an export document's formState.
func readRequestFile(path string) (model.CalculationRequest, error) {
	var req model.CalculationRequest

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return req, fmt.Errorf("reading request: %w", err)
	}

	var doc struct {
		FormState *model.CalculationRequest `json:"formState"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.FormState != nil {
		return *doc.FormState, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parsing request %s: %w", path, err)
	}
	return req, nil
}

// build assembles and validates the request: file, then template, then
// flag overrides, then config defaults for anything still unset.
func (f *requestFlags) build(c *cobra.Command, cfg config.Config, templates *config.TemplateSet) (model.CalculationRequest, error) {
	var req model.CalculationRequest
	if f.file != "" {
		var err error
		if req, err = readRequestFile(f.file); err != nil {
			return req, err
		}
	}

	if f.template != "" {
		t, ok := templates.Get(f.template)
		if !ok {
			return req, fmt.Errorf("unknown template %q (available: %s)", f.template, strings.Join(templates.Names(), ", "))
		}
		req = t.Apply(req)
	}

	flags := c.Flags()
	if flags.Changed("type") {
		req.ProjectType = model.ProjectType(f.projectType)
	}
	if flags.Changed("rate") {
		req.GlobalParams.CurrencyRate = f.rate
	}
	if flags.Changed("model") {
		req.ModelConfig.PrimaryModelID = f.primaryModel
	}
	if flags.Changed("secondary-model") {
		req.ModelConfig.SecondaryModelID = f.secondaryModel
	}
	if flags.Changed("ratio") {
		req.ModelConfig.ModelRatio = model.Float(f.ratio)
	}

	if req.GlobalParams.CurrencyRate == 0 {
		req.GlobalParams.CurrencyRate = cfg.General.CurrencyRate
	}
	if req.ModelConfig.PrimaryModelID == "" {
		req.ModelConfig.PrimaryModelID = cfg.General.DefaultModel
	}
	if p := req.ProjectParams; p != nil && p.AverageHourlyRate == 0 {
		p.AverageHourlyRate = cfg.General.HourlyRate
	}

	if err := validate.Request(req); err != nil {
		return req, err
	}
	return req, nil
}

// describeError expands validation errors to one field per line.
func describeError(err error) error {
	var verr *validate.Error
	if !errors.As(err, &verr) {
		return err
	}
	var b strings.Builder
	b.WriteString("invalid request:")
	for _, fe := range verr.Fields {
		fmt.Fprintf(&b, "\n  %s: %s", fe.Field, fe.Message)
	}
	return errors.New(b.String())
}
