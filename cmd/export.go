package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/export"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved estimate as JSON or text",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "json", "Output format: json or text")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	format, err := export.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	est, err := st.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	w := os.Stdout
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput) //nolint:gosec // output path is supplied by the user
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOutput, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := export.Write(w, format, est.Request, est.Result); err != nil {
		return err
	}
	if flagExportOutput != "" {
		info("  Wrote %s\n", flagExportOutput)
	}
	return nil
}
