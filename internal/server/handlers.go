package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/theirongolddev/agentcost/internal/calculator"
	"github.com/theirongolddev/agentcost/internal/config"
	"github.com/theirongolddev/agentcost/internal/export"
	"github.com/theirongolddev/agentcost/internal/logging"
	"github.com/theirongolddev/agentcost/internal/model"
	"github.com/theirongolddev/agentcost/internal/store"
	"github.com/theirongolddev/agentcost/internal/validate"
)

type errorResponse struct {
	Error  string                `json:"error"`
	Fields []validate.FieldError `json:"fields,omitempty"`
}

// CalculateResponse is the body of a successful POST /v1/calculate.
type CalculateResponse struct {
	ID     string                   `json:"id,omitempty"`
	Result *model.CalculationResult `json:"result"`
}

// ModelInfo describes one catalog entry.
type ModelInfo struct {
	config.ModelProfile
	Warning string `json:"warning,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus(r.Context()))
}

func (s *Service) handleModels(w http.ResponseWriter, _ *http.Request) {
	catalog := s.engine.Catalog()
	ids := catalog.IDs()
	out := make([]ModelInfo, 0, len(ids))
	for _, id := range ids {
		p, _ := catalog.Lookup(id)
		out = append(out, ModelInfo{ModelProfile: p, Warning: catalog.CapabilityWarning(id)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Templates().All())
}

func (s *Service) handleTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.Templates().Get(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Service) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req model.CalculationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.metrics.RecordCalculation("unknown", OutcomeInvalid, 0)
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	if tmpl := r.URL.Query().Get("template"); tmpl != "" {
		t, ok := s.Templates().Get(tmpl)
		if !ok {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		req = t.Apply(req)
	}

	projectType := string(req.ProjectType)
	if !req.ProjectType.Valid() {
		projectType = "unknown"
	}

	if err := validate.Request(req); err != nil {
		s.metrics.RecordValidationFailure(projectType)
		var verr *validate.Error
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	res, err := s.engine.Calculate(req)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordCalculation(projectType, OutcomeFailed, elapsed)
		status := http.StatusInternalServerError
		if errors.Is(err, calculator.ErrInvalidCurrencyRate) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	s.metrics.RecordCalculation(projectType, OutcomeSuccess, elapsed)
	s.metrics.RecordMissingModels(res.MissingModels)
	s.calculations.Add(1)

	resp := CalculateResponse{Result: res}
	if s.store != nil {
		est := store.NewEstimate(req, res)
		if err := s.store.Save(r.Context(), est); err != nil {
			s.logger.Error("saving estimate", "request_id", logging.RequestID(r.Context()), "error", err)
			s.setLastError(err)
		} else {
			resp.ID = est.ID
			s.refreshStoredGauge(r.Context())
		}
	}

	s.publish(EventEstimate, summarize(resp.ID, res), 0)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "estimate history is disabled")
		return false
	}
	return true
}

func (s *Service) handleEstimates(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []store.Estimate{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Service) loadEstimate(w http.ResponseWriter, r *http.Request) (store.Estimate, bool) {
	if !s.requireStore(w) {
		return store.Estimate{}, false
	}
	est, err := s.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return store.Estimate{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return store.Estimate{}, false
	}
	return est, true
}

func (s *Service) handleEstimate(w http.ResponseWriter, r *http.Request) {
	est, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, est)
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	est, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, est.Request, est.Result); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="estimate-`+est.ID+`.`+string(format)+`"`)
	_, _ = w.Write(buf.Bytes())
}
