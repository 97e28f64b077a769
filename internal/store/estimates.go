// Package store provides SQLite-backed history of calculated estimates.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/agentcost/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when no estimate has the requested id.
var ErrNotFound = errors.New("estimate not found")

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Estimate is one saved calculation.
type Estimate struct {
	ID           string                   `json:"id"`
	CreatedAt    time.Time                `json:"createdAt"`
	ProjectType  model.ProjectType        `json:"projectType"`
	CustomerName string                   `json:"customerName,omitempty"`
	ProjectName  string                   `json:"projectName,omitempty"`
	PrimaryModel string                   `json:"primaryModelId"`
	Request      model.CalculationRequest `json:"request"`
	Result       *model.CalculationResult `json:"result"`
}

// NewEstimate wraps a request and its result with a fresh id and timestamp.
func NewEstimate(req model.CalculationRequest, res *model.CalculationResult) Estimate {
	return Estimate{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		ProjectType:  req.ProjectType,
		CustomerName: req.GlobalParams.CustomerName,
		ProjectName:  req.GlobalParams.ProjectName,
		PrimaryModel: req.ModelConfig.PrimaryModelID,
		Request:      req,
		Result:       res,
	}
}

// Store persists estimates in SQLite. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the estimates database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts e, replacing any estimate with the same id.
func (s *Store) Save(ctx context.Context, e Estimate) error {
	if e.ID == "" {
		return errors.New("estimate id is empty")
	}
	if e.Result == nil {
		return errors.New("estimate has no result")
	}

	reqJSON, err := json.Marshal(e.Request)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	resJSON, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO estimates
		(id, created_at, project_type, customer_name, project_name, primary_model, request_json, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UTC().Format(timeLayout), string(e.ProjectType),
		e.CustomerName, e.ProjectName, e.PrimaryModel, string(reqJSON), string(resJSON),
	)
	if err != nil {
		return fmt.Errorf("saving estimate %s: %w", e.ID, err)
	}
	return nil
}

const selectColumns = `id, created_at, project_type, customer_name, project_name, primary_model, request_json, result_json`

// Get returns the estimate with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Estimate, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM estimates WHERE id = ?", id)
	e, err := scanEstimate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Estimate{}, ErrNotFound
	}
	if err != nil {
		return Estimate{}, fmt.Errorf("loading estimate %s: %w", id, err)
	}
	return e, nil
}

// List returns up to limit estimates, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Estimate, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM estimates ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Estimate
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning estimate: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PruneBefore deletes estimates created before cutoff and reports how many
// were removed.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM estimates WHERE created_at < ?",
		cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning estimates: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored estimates.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM estimates").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting estimates: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEstimate(sc scanner) (Estimate, error) {
	var (
		e                      Estimate
		createdAt, projectType string
		customer, project, pm  sql.NullString
		reqJSON, resJSON       string
	)
	if err := sc.Scan(&e.ID, &createdAt, &projectType, &customer, &project, &pm, &reqJSON, &resJSON); err != nil {
		return Estimate{}, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Estimate{}, fmt.Errorf("parsing created_at: %w", err)
	}
	e.CreatedAt = t
	e.ProjectType = model.ProjectType(projectType)
	e.CustomerName = customer.String
	e.ProjectName = project.String
	e.PrimaryModel = pm.String

	if err := json.Unmarshal([]byte(reqJSON), &e.Request); err != nil {
		return Estimate{}, fmt.Errorf("decoding request: %w", err)
	}
	e.Result = &model.CalculationResult{}
	if err := json.Unmarshal([]byte(resJSON), e.Result); err != nil {
		return Estimate{}, fmt.Errorf("decoding result: %w", err)
	}
	return e, nil
}
