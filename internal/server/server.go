// Package server exposes the calculation engine, model catalog, templates
// and estimate history over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theirongolddev/agentcost/internal/calculator"
	"github.com/theirongolddev/agentcost/internal/config"
	"github.com/theirongolddev/agentcost/internal/store"
)

// Config controls the HTTP service.
type Config struct {
	Addr          string
	RetentionDays int
	PruneSchedule string
	// TemplatesFile is the user template file; it is reloaded on change.
	TemplatesFile string
	EventsBuffer  int
	// MaxBodyBytes caps request bodies on POST endpoints.
	MaxBodyBytes int64
}

// Status is served at /v1/status.
type Status struct {
	StartedAt        time.Time  `json:"started_at"`
	Calculations     int64      `json:"calculations"`
	StoreEnabled     bool       `json:"store_enabled"`
	StoredEstimates  int64      `json:"stored_estimates"`
	Templates        int        `json:"templates"`
	Models           int        `json:"models"`
	LastPruneAt      *time.Time `json:"last_prune_at,omitempty"`
	NextPruneAt      *time.Time `json:"next_prune_at,omitempty"`
	LastError        string     `json:"last_error,omitempty"`
	EventCount       int        `json:"event_count"`
	SubscriberCount  int        `json:"subscriber_count"`
	TemplatesWatched bool       `json:"templates_watched"`
}

// Service is the agentcost HTTP API.
type Service struct {
	cfg       Config
	engine    *calculator.Engine
	store     *store.Store
	templates atomic.Pointer[config.TemplateSet]
	metrics   *Metrics
	logger    *slog.Logger
	retention *RetentionScheduler

	startedAt    time.Time
	calculations atomic.Int64

	mu          sync.RWMutex
	lastPruneAt time.Time
	lastError   string
	nextEventID int64
	events      []Event
	nextSubID   int
	subs        map[int]chan Event
}

// New returns a service. st may be nil, in which case estimates are not
// persisted and the history endpoints answer 503.
func New(cfg Config, engine *calculator.Engine, st *store.Store, templates *config.TemplateSet, logger *slog.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = calculator.New(nil, logger)
	}

	s := &Service{
		cfg:       cfg,
		engine:    engine,
		store:     st,
		metrics:   NewMetrics(),
		logger:    logger.With("component", "server"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	if templates == nil {
		templates = &config.TemplateSet{}
	}
	s.templates.Store(templates)

	if st != nil {
		s.retention = NewRetentionScheduler(st, cfg.RetentionDays, cfg.PruneSchedule, logger, s.recordPrune)
	}
	return s
}

// Metrics exposes the service's collectors.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the routed API with request-id and access-log middleware.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/models", s.handleModels)
	mux.HandleFunc("GET /v1/templates", s.handleTemplates)
	mux.HandleFunc("GET /v1/templates/{name}", s.handleTemplate)
	mux.HandleFunc("POST /v1/calculate", s.handleCalculate)
	mux.HandleFunc("GET /v1/estimates", s.handleEstimates)
	mux.HandleFunc("GET /v1/estimates/{id}", s.handleEstimate)
	mux.HandleFunc("GET /v1/estimates/{id}/export", s.handleExport)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.withRequestID(s.withAccessLog(mux))
}

// Run serves the API until ctx is cancelled, with retention pruning and
// template hot reload running alongside.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.retention != nil {
		if err := s.retention.Start(ctx); err != nil {
			return err
		}
	}
	s.refreshStoredGauge(ctx)

	if s.cfg.TemplatesFile != "" {
		tw, err := NewTemplateWatcher(s.cfg.TemplatesFile, DefaultDebounce, s.logger)
		if err != nil {
			s.logger.Warn("template hot reload disabled", "error", err)
		} else {
			go func() {
				if err := tw.Watch(ctx, s.ReloadTemplates); err != nil {
					s.logger.Error("template watcher exited", "error", err)
				}
			}()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// ReloadTemplates re-reads the user template file and swaps it in. On
// error the previous set stays active.
func (s *Service) ReloadTemplates() error {
	set, err := config.LoadTemplates(s.cfg.TemplatesFile)
	s.metrics.RecordTemplateReload(err == nil)
	if err != nil {
		s.setLastError(err)
		return err
	}
	s.templates.Store(set)
	return nil
}

// Templates returns the active template set.
func (s *Service) Templates() *config.TemplateSet {
	return s.templates.Load()
}

func (s *Service) recordPrune(deleted int64, err error) {
	s.mu.Lock()
	s.lastPruneAt = time.Now()
	s.mu.Unlock()

	if err != nil {
		s.setLastError(err)
		return
	}
	s.metrics.RecordPruned(deleted)
	s.refreshStoredGauge(context.Background())
	s.publish(EventPrune, nil, deleted)
}

func (s *Service) refreshStoredGauge(ctx context.Context) {
	if s.store == nil {
		return
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Warn("counting stored estimates", "error", err)
		return
	}
	s.metrics.SetStoredEstimates(n)
}

func (s *Service) setLastError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) snapshotStatus(ctx context.Context) Status {
	st := Status{
		StartedAt:        s.startedAt,
		Calculations:     s.calculations.Load(),
		StoreEnabled:     s.store != nil,
		Templates:        len(s.Templates().Names()),
		Models:           len(s.engine.Catalog().IDs()),
		TemplatesWatched: s.cfg.TemplatesFile != "",
	}
	if s.store != nil {
		if n, err := s.store.Count(ctx); err == nil {
			st.StoredEstimates = n
		}
	}
	if s.retention != nil {
		st.NextPruneAt = s.retention.NextRun()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.lastPruneAt.IsZero() {
		t := s.lastPruneAt
		st.LastPruneAt = &t
	}
	st.LastError = s.lastError
	st.EventCount = len(s.events)
	st.SubscriberCount = len(s.subs)
	return st
}
