package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/agentcost/internal/server"
	"github.com/theirongolddev/agentcost/internal/store"
)

var (
	flagServeAddr          string
	flagServeNoStore       bool
	flagServeRetentionDays int
	flagServeSchedule      string
	flagServeEventsBuffer  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the estimate HTTP API",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running API",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().BoolVar(&flagServeNoStore, "no-store", false, "Do not persist estimates")
	serveCmd.Flags().IntVar(&flagServeRetentionDays, "retention-days", 0, "Delete estimates older than this many days (default from config)")
	serveCmd.Flags().StringVar(&flagServeSchedule, "prune-schedule", "", "Cron schedule for retention pruning (default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(c *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	cfg := server.Config{
		Addr:          e.cfg.Server.Addr,
		RetentionDays: e.cfg.Server.RetentionDays,
		PruneSchedule: e.cfg.Server.PruneSchedule,
		TemplatesFile: e.cfg.Server.TemplatesFile,
		EventsBuffer:  flagServeEventsBuffer,
	}
	if c.Flags().Changed("addr") {
		cfg.Addr = flagServeAddr
	}
	if c.Flags().Changed("retention-days") {
		cfg.RetentionDays = flagServeRetentionDays
	}
	if c.Flags().Changed("prune-schedule") {
		cfg.PruneSchedule = flagServeSchedule
	}

	var st *store.Store
	if !flagServeNoStore {
		st, err = store.Open(e.cfg.StorePath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer func() { _ = st.Close() }()
	}

	svc := server.New(cfg, e.engine, st, e.templates, e.logger)

	info("  agentcost API listening on http://%s\n", cfg.Addr)
	if st != nil {
		info("  History: %s\n", e.cfg.StorePath())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(c *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if c.Flags().Changed("addr") {
		addr = flagServeAddr
	}

	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Up since: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Calculations: %d\n", st.Calculations)
	fmt.Printf("  Models: %d  Templates: %d\n", st.Models, st.Templates)
	if st.StoreEnabled {
		fmt.Printf("  Stored estimates: %d\n", st.StoredEstimates)
	} else {
		fmt.Printf("  History: disabled\n")
	}
	if st.LastPruneAt != nil {
		fmt.Printf("  Last prune: %s\n", st.LastPruneAt.Local().Format(time.RFC3339))
	}
	if st.NextPruneAt != nil {
		fmt.Printf("  Next prune: %s\n", st.NextPruneAt.Local().Format(time.RFC3339))
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}
