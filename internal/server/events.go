package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/theirongolddev/agentcost/internal/model"
)

// Event types published on /v1/events and /v1/stream.
const (
	EventEstimate = "estimate"
	EventPrune    = "prune"
)

// EstimateSummary is the headline of a calculation carried by events.
type EstimateSummary struct {
	ID               string            `json:"id,omitempty"`
	ProjectType      model.ProjectType `json:"project_type"`
	CustomerName     string            `json:"customer_name,omitempty"`
	ProjectName      string            `json:"project_name,omitempty"`
	PrimaryModelID   string            `json:"primary_model_id"`
	TraditionalAUD   *float64          `json:"traditional_aud,omitempty"`
	AgenticAUD       *float64          `json:"agentic_aud,omitempty"`
	DailyOngoingAUD  *float64          `json:"daily_ongoing_aud,omitempty"`
	MissingModels    []string          `json:"missing_models,omitempty"`
	CalculationSteps int               `json:"calculation_steps"`
}

// Event is emitted for each calculation and each retention pass.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Estimate  *EstimateSummary `json:"estimate,omitempty"`
	Pruned    int64            `json:"pruned,omitempty"`
}

func summarize(id string, res *model.CalculationResult) *EstimateSummary {
	sum := &EstimateSummary{
		ID:               id,
		ProjectType:      res.ProjectType,
		CustomerName:     res.CustomerName,
		ProjectName:      res.ProjectName,
		PrimaryModelID:   res.PrimaryModelID,
		MissingModels:    res.MissingModels,
		CalculationSteps: len(res.CalculationSteps),
	}
	if res.TraditionalCost != nil {
		v := res.TraditionalCost.AUD
		sum.TraditionalAUD = &v
	}
	if res.AgenticCost != nil {
		v := res.AgenticCost.Total.AUD
		sum.AgenticAUD = &v
	}
	if res.DailyCosts != nil {
		v := res.DailyCosts.Total.AUD
		sum.DailyOngoingAUD = &v
	}
	return sum
}

func (s *Service) publish(eventType string, est *EstimateSummary, pruned int64) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      eventType,
		Timestamp: time.Now(),
		Estimate:  est,
		Pruned:    pruned,
	}
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
