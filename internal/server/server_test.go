package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/theirongolddev/agentcost/internal/config"
	"github.com/theirongolddev/agentcost/internal/logging"
	"github.com/theirongolddev/agentcost/internal/store"
)

const oneOffBody = `{
	"projectType": "oneoff",
	"globalParams": {"currencyRate": 0.5, "customerName": "Acme"},
	"modelConfig": {"primaryModelId": "claude-sonnet-4-5"},
	"projectParams": {
		"manualDevHours": 100,
		"averageHourlyRate": 100,
		"agenticMultiplier": 4,
		"humanGuidanceTime": 10,
		"totalProjectTokens": 20000000
	}
}`

func newTestService(t *testing.T, withStore bool) *Service {
	t.Helper()

	var st *store.Store
	if withStore {
		var err error
		st, err = store.Open(filepath.Join(t.TempDir(), "estimates.db"))
		if err != nil {
			t.Fatalf("store.Open: %v", err)
		}
		t.Cleanup(func() { _ = st.Close() })
	}

	templates, err := config.LoadTemplates("")
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	return New(Config{EventsBuffer: 10}, nil, st, templates, logging.Discard())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok\n" {
		t.Fatalf("body = %q, want ok", rec.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestService(t, false).Handler()

	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("missing generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); len(got) > 128 {
		t.Fatalf("oversized request id was echoed back (%d bytes)", len(got))
	}
}

func TestModels(t *testing.T) {
	rec := do(t, newTestService(t, false).Handler(), http.MethodGet, "/v1/models", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	models := decode[[]ModelInfo](t, rec)
	if len(models) != len(config.DefaultProfiles) {
		t.Fatalf("models = %d, want %d", len(models), len(config.DefaultProfiles))
	}

	byID := make(map[string]ModelInfo, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}
	if w := byID["claude-sonnet-4-5"].Warning; w != "" {
		t.Fatalf("sonnet warning = %q, want none", w)
	}
	if w := byID["gpt-4o-mini"].Warning; !strings.Contains(w, "Gpt 4o Mini") {
		t.Fatalf("gpt-4o-mini warning = %q", w)
	}
}

func TestTemplates(t *testing.T) {
	h := newTestService(t, false).Handler()

	rec := do(t, h, http.MethodGet, "/v1/templates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	list := decode[[]config.Template](t, rec)
	if len(list) == 0 {
		t.Fatal("no templates listed")
	}

	rec = do(t, h, http.MethodGet, "/v1/templates/small-web-app", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("template status = %d, want 200", rec.Code)
	}
	if got := decode[config.Template](t, rec).Name; got != "small-web-app" {
		t.Fatalf("template name = %q", got)
	}

	rec = do(t, h, http.MethodGet, "/v1/templates/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing template status = %d, want 404", rec.Code)
	}
}

func TestCalculateWithoutStore(t *testing.T) {
	s := newTestService(t, false)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/calculate", oneOffBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decode[CalculateResponse](t, rec)
	if resp.ID != "" {
		t.Fatalf("id = %q, want empty without a store", resp.ID)
	}
	if resp.Result == nil || resp.Result.TraditionalCost == nil {
		t.Fatal("missing traditional cost")
	}
	if resp.Result.TraditionalCost.AUD != 10000 || resp.Result.TraditionalCost.USD != 5000 {
		t.Fatalf("traditional = %+v, want 10000 AUD / 5000 USD", *resp.Result.TraditionalCost)
	}
	if resp.Result.CustomerName != "Acme" {
		t.Fatalf("customer = %q", resp.Result.CustomerName)
	}

	if got := s.calculations.Load(); got != 1 {
		t.Fatalf("calculations = %d, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.calculations.WithLabelValues("oneoff", OutcomeSuccess)); got != 1 {
		t.Fatalf("success counter = %v, want 1", got)
	}

	rec = do(t, s.Handler(), http.MethodGet, "/v1/estimates", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("estimates without store status = %d, want 503", rec.Code)
	}
}

func TestCalculateValidationFailure(t *testing.T) {
	s := newTestService(t, false)
	body := strings.Replace(oneOffBody, `"currencyRate": 0.5`, `"currencyRate": 0`, 1)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/calculate", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decode[errorResponse](t, rec)
	if resp.Error != "validation failed" {
		t.Fatalf("error = %q", resp.Error)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "globalParams.currencyRate" {
		t.Fatalf("fields = %+v", resp.Fields)
	}
	if got := testutil.ToFloat64(s.metrics.validationFailures); got != 1 {
		t.Fatalf("validation failures = %v, want 1", got)
	}
	if got := s.calculations.Load(); got != 0 {
		t.Fatalf("calculations = %d, want 0", got)
	}
}

func TestCalculateMalformedBody(t *testing.T) {
	h := newTestService(t, false).Handler()
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"unknown field", `{"projectType":"oneoff","bogus":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/calculate", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(decode[errorResponse](t, rec).Error, "malformed request body") {
				t.Fatalf("body = %s", rec.Body.String())
			}
		})
	}
}

func TestCalculateFromTemplate(t *testing.T) {
	h := newTestService(t, false).Handler()
	body := `{"globalParams": {"currencyRate": 0.65}}`

	rec := do(t, h, http.MethodPost, "/v1/calculate?template=small-web-app", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if decode[CalculateResponse](t, rec).Result.TraditionalCost == nil {
		t.Fatal("template request did not produce a one-off estimate")
	}

	rec = do(t, h, http.MethodPost, "/v1/calculate?template=nope", body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown template status = %d, want 404", rec.Code)
	}
}

func TestCalculateMissingModelIsCounted(t *testing.T) {
	s := newTestService(t, false)
	body := strings.Replace(oneOffBody, "claude-sonnet-4-5", "retired-model", 1)

	rec := do(t, s.Handler(), http.MethodPost, "/v1/calculate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	res := decode[CalculateResponse](t, rec).Result
	if len(res.MissingModels) != 1 || res.MissingModels[0] != "retired-model" {
		t.Fatalf("missing models = %v", res.MissingModels)
	}
	if got := testutil.ToFloat64(s.metrics.missingModels.WithLabelValues("retired-model")); got != 1 {
		t.Fatalf("missing model counter = %v, want 1", got)
	}
}

func TestEstimateHistoryAndExport(t *testing.T) {
	s := newTestService(t, true)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/v1/calculate", oneOffBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("calculate status = %d, body %s", rec.Code, rec.Body.String())
	}
	id := decode[CalculateResponse](t, rec).ID
	if id == "" {
		t.Fatal("expected saved estimate id")
	}
	if got := testutil.ToFloat64(s.metrics.storedEstimates); got != 1 {
		t.Fatalf("stored gauge = %v, want 1", got)
	}

	rec = do(t, h, http.MethodGet, "/v1/estimates?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decode[[]store.Estimate](t, rec)
	if len(list) != 1 || list[0].ID != id || list[0].CustomerName != "Acme" {
		t.Fatalf("list = %+v", list)
	}

	rec = do(t, h, http.MethodGet, "/v1/estimates?limit=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/v1/estimates/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decode[store.Estimate](t, rec); got.Result == nil || got.Result.TraditionalCost.AUD != 10000 {
		t.Fatalf("stored result = %+v", got.Result)
	}

	rec = do(t, h, http.MethodGet, "/v1/estimates/does-not-exist", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing estimate status = %d, want 404", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/v1/estimates/"+id+"/export?format=text", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("text export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("text content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Acme") {
		t.Fatalf("text export missing customer:\n%s", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/v1/estimates/"+id+"/export?format=json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("json export status = %d", rec.Code)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("json export: %v", err)
	}
	if _, ok := doc["formState"]; !ok {
		t.Fatalf("json export missing formState: %s", rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/v1/estimates/"+id+"/export?format=pdf", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("pdf export status = %d, want 400", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	s := newTestService(t, true)
	h := s.Handler()
	do(t, h, http.MethodPost, "/v1/calculate", oneOffBody)

	rec := do(t, h, http.MethodGet, "/v1/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	st := decode[Status](t, rec)
	if st.Calculations != 1 || st.StoredEstimates != 1 || !st.StoreEnabled {
		t.Fatalf("status = %+v", st)
	}
	if st.Models != len(config.DefaultProfiles) {
		t.Fatalf("models = %d, want %d", st.Models, len(config.DefaultProfiles))
	}
	if st.EventCount != 1 {
		t.Fatalf("event count = %d, want 1", st.EventCount)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestService(t, false)
	h := s.Handler()
	do(t, h, http.MethodPost, "/v1/calculate", oneOffBody)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"agentcost_calculations_total",
		"agentcost_calculation_duration_seconds",
		`project_type="oneoff"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, nil, nil, nil, logging.Discard())

	s.publish(EventPrune, nil, 1)
	s.publish(EventPrune, nil, 2)
	s.publish(EventPrune, nil, 3)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].Pruned != 2 || s.events[1].Pruned != 3 {
		t.Fatalf("events ring contains [%d, %d], want [2, 3]", s.events[0].Pruned, s.events[1].Pruned)
	}
	if s.events[1].ID != 3 {
		t.Fatalf("last event id = %d, want 3", s.events[1].ID)
	}
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestService(t, false)
	h := s.Handler()
	do(t, h, http.MethodPost, "/v1/calculate", oneOffBody)

	rec := do(t, h, http.MethodGet, "/v1/events", "")
	events := decode[[]Event](t, rec)
	if len(events) != 1 || events[0].Type != EventEstimate {
		t.Fatalf("events = %+v", events)
	}
	sum := events[0].Estimate
	if sum == nil || sum.TraditionalAUD == nil || *sum.TraditionalAUD != 10000 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.DailyOngoingAUD != nil {
		t.Fatalf("one-off summary has daily cost %v", *sum.DailyOngoingAUD)
	}
}

func TestStreamDeliversEvents(t *testing.T) {
	s := newTestService(t, false)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /v1/stream: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	if !lines.Scan() || lines.Text() != ": connected" {
		t.Fatalf("first line = %q, want \": connected\"", lines.Text())
	}

	post, err := http.Post(srv.URL+"/v1/calculate", "application/json", strings.NewReader(oneOffBody))
	if err != nil {
		t.Fatalf("POST /v1/calculate: %v", err)
	}
	_ = post.Body.Close()

	var sawEvent bool
	for lines.Scan() {
		line := lines.Text()
		if line == "event: "+EventEstimate {
			sawEvent = true
			continue
		}
		if sawEvent && strings.HasPrefix(line, "data: ") {
			var ev Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
				t.Fatalf("decoding event: %v", err)
			}
			if ev.Estimate == nil || ev.Estimate.CustomerName != "Acme" {
				t.Fatalf("event = %+v", ev)
			}
			return
		}
	}
	t.Fatalf("stream ended without an estimate event: %v", lines.Err())
}

type fakePruner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakePruner) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestRetentionPruneNow(t *testing.T) {
	now := time.Date(2026, 3, 31, 3, 0, 0, 0, time.UTC)
	p := &fakePruner{deleted: 4}

	var gotDeleted int64
	var gotErr error
	rs := NewRetentionScheduler(p, 30, "0 3 * * *", logging.Discard(), func(n int64, err error) {
		gotDeleted, gotErr = n, err
	})
	rs.now = func() time.Time { return now }

	if got := rs.PruneNow(context.Background()); got != 4 {
		t.Fatalf("PruneNow = %d, want 4", got)
	}
	if want := now.AddDate(0, 0, -30); !p.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", p.cutoff, want)
	}
	if gotDeleted != 4 || gotErr != nil {
		t.Fatalf("callback = (%d, %v), want (4, nil)", gotDeleted, gotErr)
	}

	p.err = errors.New("disk full")
	if got := rs.PruneNow(context.Background()); got != 0 {
		t.Fatalf("PruneNow on error = %d, want 0", got)
	}
	if gotErr == nil {
		t.Fatal("callback did not receive the prune error")
	}
}

func TestRetentionSchedulerLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rs := NewRetentionScheduler(&fakePruner{}, 30, "0 3 * * *", logging.Discard(), nil)
	if err := rs.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !rs.IsRunning() {
		t.Fatal("scheduler not running after Start")
	}
	if rs.NextRun() == nil {
		t.Fatal("NextRun = nil, want a scheduled time")
	}
	rs.Stop()
	if rs.IsRunning() {
		t.Fatal("scheduler still running after Stop")
	}

	disabled := NewRetentionScheduler(&fakePruner{}, 0, "0 3 * * *", logging.Discard(), nil)
	if err := disabled.Start(ctx); err != nil {
		t.Fatalf("Start disabled: %v", err)
	}
	if disabled.IsRunning() {
		t.Fatal("scheduler with zero retention should not run")
	}

	bad := NewRetentionScheduler(&fakePruner{}, 30, "not a schedule", logging.Discard(), nil)
	if err := bad.Start(ctx); err == nil {
		t.Fatal("Start with invalid schedule: want error")
	}
}

func TestRecordPrunePublishesEvent(t *testing.T) {
	s := newTestService(t, false)
	s.recordPrune(3, nil)

	if got := testutil.ToFloat64(s.metrics.pruned); got != 3 {
		t.Fatalf("pruned counter = %v, want 3", got)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 1 || s.events[0].Type != EventPrune || s.events[0].Pruned != 3 {
		t.Fatalf("events = %+v", s.events)
	}
	if s.lastPruneAt.IsZero() {
		t.Fatal("lastPruneAt not recorded")
	}
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	for range 5 {
		d.trigger(func() { calls.Add(1) })
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}

	d.stop()
	d.trigger(func() { calls.Add(1) })
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls after stop = %d, want 1", got)
	}
}

func TestReloadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	doc := `templates:
  - name: custom
    description: user preset
    request:
      projectType: ongoing
      teamParams:
        numberOfDevs: 2
        tokensPerDevPerDay: 1000000
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write templates: %v", err)
	}

	s := New(Config{TemplatesFile: path}, nil, nil, nil, logging.Discard())
	if err := s.ReloadTemplates(); err != nil {
		t.Fatalf("ReloadTemplates: %v", err)
	}
	if _, ok := s.Templates().Get("custom"); !ok {
		t.Fatal("custom template not loaded")
	}
	if _, ok := s.Templates().Get("small-web-app"); !ok {
		t.Fatal("built-in templates dropped on reload")
	}

	if err := os.WriteFile(path, []byte("templates: [:"), 0o600); err != nil {
		t.Fatalf("write templates: %v", err)
	}
	if err := s.ReloadTemplates(); err == nil {
		t.Fatal("ReloadTemplates with bad YAML: want error")
	}
	if _, ok := s.Templates().Get("custom"); !ok {
		t.Fatal("previous template set not kept after failed reload")
	}
	if got := testutil.ToFloat64(s.metrics.templateReloads.WithLabelValues("error")); got != 1 {
		t.Fatalf("reload error counter = %v, want 1", got)
	}
}
