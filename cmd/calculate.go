package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/export"
	"github.com/theirongolddev/agentcost/internal/store"
)

var (
	calcFlags      requestFlags
	flagCalcFormat string
	flagCalcSave   bool
	flagCalcOutput string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Run a cost estimate and print the report",
	Example: `  agentcost calculate -t small-web-app
  agentcost calculate -f request.json --rate 0.66 --format json
  agentcost calculate -t dev-team-rollout --model claude-opus-4-6 --save`,
	Aliases: []string{"calc"},
	RunE:    runCalculate,
}

func init() {
	calcFlags.register(calculateCmd)
	calculateCmd.Flags().StringVar(&flagCalcFormat, "format", "text", "Output format: text or json")
	calculateCmd.Flags().BoolVar(&flagCalcSave, "save", false, "Save the estimate to the history database")
	calculateCmd.Flags().StringVarP(&flagCalcOutput, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(c *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(flagCalcFormat)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	req, err := calcFlags.build(c, e.cfg, e.templates)
	if err != nil {
		return describeError(err)
	}

	res, err := e.engine.Calculate(req)
	if err != nil {
		return err
	}

	if flagCalcSave {
		st, err := store.Open(e.cfg.StorePath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer func() { _ = st.Close() }()

		est := store.NewEstimate(req, res)
		if err := st.Save(context.Background(), est); err != nil {
			return err
		}
		info("  Saved estimate %s\n", est.ID)
	}

	w := os.Stdout
	if flagCalcOutput != "" {
		f, err := os.Create(flagCalcOutput) //nolint:gosec // output path is supplied by the user
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagCalcOutput, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := export.Write(w, format, req, res); err != nil {
		return err
	}
	if flagCalcOutput != "" {
		info("  Wrote %s\n", flagCalcOutput)
	}
	return nil
}
