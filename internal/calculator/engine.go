// Package calculator estimates and compares the cost of traditional and
// agentic software development, for one-off projects and ongoing usage.
//
// Every function is a deterministic function of its inputs. An Engine holds
// only an immutable catalog and a logger, so one Engine can serve concurrent
// callers.
package calculator

import (
	"log/slog"

	"github.com/theirongolddev/agentcost/internal/config"
)

// Engine runs cost calculations against a model catalog.
type Engine struct {
	catalog *config.Catalog
	logger  *slog.Logger
}

// New returns an Engine. A nil catalog means the built-in catalog; a nil
// logger means slog.Default().
func New(catalog *config.Catalog, logger *slog.Logger) *Engine {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalog: catalog,
		logger:  logger.With("component", "calculator"),
	}
}

// Catalog returns the catalog the engine prices against.
func (e *Engine) Catalog() *config.Catalog {
	return e.catalog
}
