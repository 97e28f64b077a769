// Package export writes a calculation and the request that produced it as
// JSON or as a human-readable report. It never recalculates.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/agentcost/internal/model"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts "json" or "text" (case-insensitive). Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or text)", s)
	}
}

// Document is the JSON export shape.
type Document struct {
	FormState model.CalculationRequest `json:"formState"`
	Result    *model.CalculationResult `json:"result"`
}

// Write exports in the given format.
func Write(w io.Writer, f Format, formState model.CalculationRequest, result *model.CalculationResult) error {
	switch f {
	case FormatJSON:
		return JSON(w, formState, result)
	case FormatText:
		return Text(w, result)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// JSON writes {"formState": ..., "result": ...} indented.
func JSON(w io.Writer, formState model.CalculationRequest, result *model.CalculationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{FormState: formState, Result: result}); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
