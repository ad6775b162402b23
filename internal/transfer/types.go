// Package transfer implements the data transfer engine: it plans a transfer
// between two record stores, copies the source table in bounded batches,
// infers a destination schema when none exists, and tracks per-transfer
// status in a concurrency-safe registry.
// This package has no HTTP dependencies and can be driven by any frontend.
package transfer

import (
	"regexp"
	"time"
)

// DefaultBatchSize is the number of rows copied per batch when the request
// does not specify one.
const DefaultBatchSize = 1000

// State is the lifecycle state of a transfer.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Config describes one transfer request. Field names mirror the JSON API.
type Config struct {
	SourceDB         string `json:"source_db"`
	DestinationDB    string `json:"destination_db"`
	SourceTable      string `json:"source_table"`
	DestinationTable string `json:"destination_table"`
	BatchSize        int64  `json:"batch_size"`
}

// applyDefaults fills in the documented defaults for omitted fields.
func (c *Config) applyDefaults() {
	if c.SourceDB == "" {
		c.SourceDB = "source"
	}
	if c.DestinationDB == "" {
		c.DestinationDB = "destination"
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
}

// Status is the mutable record of one transfer. The engine owns it while the
// transfer is in flight; callers receive copies from the registry and never
// observe partial updates.
//
// Invariants:
//   - RecordsTransferred only grows, and only after a batch is durably
//     written to the destination; it never exceeds TotalRecords.
//   - TotalRecords is set once, before the copy loop, and never recomputed.
//   - CompletedAt is set exactly once, on the transition to a terminal state.
//   - ErrorMessage is non-empty iff State is failed.
type Status struct {
	ID                 string     `json:"transfer_id"`
	State              State      `json:"status"`
	SourceTable        string     `json:"source_table"`
	DestinationTable   string     `json:"destination_table"`
	RecordsTransferred int64      `json:"records_transferred"`
	TotalRecords       int64      `json:"total_records"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	ErrorMessage       string     `json:"error_message,omitempty"`
}

// identifierPattern matches safe SQL identifiers: letters, digits and
// underscores, not starting with a digit.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateConfig rejects malformed transfer requests before a transfer
// identifier is ever created. Store and table names must be safe
// identifiers; the batch size must be positive.
func ValidateConfig(c Config) error {
	fields := []struct {
		name  string
		value string
	}{
		{"source_db", c.SourceDB},
		{"destination_db", c.DestinationDB},
		{"source_table", c.SourceTable},
		{"destination_table", c.DestinationTable},
	}
	for _, f := range fields {
		if !identifierPattern.MatchString(f.value) {
			return invalidIdentifierError(f.name, f.value)
		}
	}
	if c.BatchSize <= 0 {
		return invalidBatchSizeError(c.BatchSize)
	}
	return nil
}
