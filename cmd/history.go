package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/cli"
	"github.com/theirongolddev/agentcost/internal/store"
)

var (
	flagHistoryLimit     int
	flagHistoryOlderThan int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved estimates",
	RunE:  runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete saved estimates older than --older-than days",
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", store.DefaultListLimit, "Maximum estimates to list")
	historyPruneCmd.Flags().IntVar(&flagHistoryOlderThan, "older-than", 0, "Age in days (default: server.retention_days)")
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return st, nil
}

func runHistory(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	list, err := st.List(context.Background(), flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("\n  No saved estimates. Use `agentcost calculate --save` to add one.")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, est := range list {
		oneOff, ongoing := "-", "-"
		if r := est.Result; r != nil {
			if r.AgenticCost != nil {
				oneOff = cli.FormatAUD(r.AgenticCost.Total.AUD)
			}
			if r.DailyCosts != nil {
				ongoing = cli.FormatAUD(r.DailyCosts.Monthly.AUD)
			}
		}
		rows = append(rows, []string{
			est.ID,
			est.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(est.ProjectType),
			est.CustomerName,
			est.ProjectName,
			est.PrimaryModel,
			oneOff,
			ongoing,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Saved Estimates",
		Headers: []string{"ID", "Created", "Type", "Customer", "Project", "Model", "Agentic", "Ongoing/mo"},
		Rows:    rows,
	}))
	return nil
}

func runHistoryPrune(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	days := flagHistoryOlderThan
	if days <= 0 {
		days = cfg.Server.RetentionDays
	}
	if days <= 0 {
		return fmt.Errorf("no retention configured; pass --older-than")
	}

	st, err := store.Open(cfg.StorePath())
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer func() { _ = st.Close() }()

	cutoff := time.Now().AddDate(0, 0, -days)
	deleted, err := st.PruneBefore(context.Background(), cutoff)
	if err != nil {
		return err
	}
	fmt.Printf("  Deleted %d estimates older than %d days\n", deleted, days)
	return nil
}
