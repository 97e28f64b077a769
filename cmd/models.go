package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/cli"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model pricing catalog",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	catalog := e.engine.Catalog()

	rows := [][]string{}
	for _, id := range catalog.IDs() {
		p, _ := catalog.Lookup(id)
		name := id
		if id == catalog.DefaultID() {
			name += " *"
		}
		agentic := "yes"
		if !p.AgenticCodingCapable {
			agentic = "no"
		}
		rows = append(rows, []string{
			name,
			cli.FormatPerMTok(p.InputPerMTok),
			cli.FormatPerMTok(p.OutputPerMTok),
			cli.FormatPerMTok(p.CacheWritePerMTok),
			cli.FormatPerMTok(p.CacheReadPerMTok),
			cli.FormatMultiplier(p.SpeedMultiplier),
			cli.FormatMultiplier(p.CapabilityMultiplier),
			agentic,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MODEL CATALOG  USD per million tokens"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Model", "Input", "Output", "Cache W", "Cache R", "Speed", "Capability", "Agentic"},
		Rows:    rows,
	}))
	info("\n  * default model. Override prices under [pricing.overrides] in %s\n", configPath())
	return nil
}
