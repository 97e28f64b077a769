package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/agentcost/internal/cli"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List request templates",
	RunE:  runTemplates,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a template as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplatesShow,
}

func init() {
	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(_ *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	rows := [][]string{}
	for _, t := range e.templates.All() {
		rows = append(rows, []string{t.Name, string(t.Request.ProjectType), t.Request.ModelConfig.PrimaryModelID, t.Description})
	}
	if len(rows) == 0 {
		fmt.Println("\n  No templates found.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Templates",
		Headers: []string{"Name", "Type", "Model", "Description"},
		Rows:    rows,
	}))
	if e.cfg.Server.TemplatesFile != "" {
		info("\n  User templates: %s\n", e.cfg.Server.TemplatesFile)
	}
	return nil
}

func runTemplatesShow(_ *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	t, ok := e.templates.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown template %q", args[0])
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(t)
}
