package transfer

// errors.go defines the configuration-error sentinels and the mapping from
// technical errors to user-facing messages with support codes.
//
// Configuration errors are the only errors Execute returns synchronously;
// everything that goes wrong after a transfer is registered is captured into
// the status record instead (the outcome of a transfer is data, not an
// exception).
//
// Error codes:
//
//	CFG001 - Unknown store: the named store is not configured
//	CFG002 - Invalid identifier: store or table name is not a safe identifier
//	CFG003 - Invalid batch size: batch size must be positive
//	SRV001 - Busy: too many concurrent transfers
//	SRV002 - Cancelled: the client went away mid-request
//	SRV000 - Fallback for anything unrecognized

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dataflow-project/dataflow/internal/store"
)

// ErrInvalidIdentifier is returned when a store or table name does not
// match the safe identifier pattern.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ErrInvalidBatchSize is returned when the requested batch size is not a
// positive integer.
var ErrInvalidBatchSize = errors.New("invalid batch size")

// ErrTooManyTransfers is returned when all transfer slots are occupied and
// the wait timeout expires. Clients should retry after a short delay.
var ErrTooManyTransfers = errors.New("too many concurrent transfers, please try again later")

func invalidIdentifierError(field, value string) error {
	return fmt.Errorf("%w: %s %q must contain only alphanumeric characters and underscores and must not start with a number",
		ErrInvalidIdentifier, field, value)
}

func invalidBatchSizeError(size int64) error {
	return fmt.Errorf("%w: %d, must be a positive integer", ErrInvalidBatchSize, size)
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// MapError converts a configuration error into a user-facing message.
// Unrecognized errors fall through to the SRV000 fallback; the technical
// detail stays in the server logs.
func MapError(err error) UserMessage {
	switch {
	case errors.Is(err, store.ErrUnknownStore):
		return UserMessage{
			Message: "The requested database is not configured",
			Action:  "Check the database name against /api/databases",
			Code:    "CFG001",
		}
	case errors.Is(err, ErrInvalidIdentifier):
		return UserMessage{
			Message: "Database and table names may only contain letters, digits and underscores",
			Action:  "Correct the name and retry",
			Code:    "CFG002",
		}
	case errors.Is(err, ErrInvalidBatchSize):
		return UserMessage{
			Message: "Batch size must be a positive integer",
			Action:  "Use a batch size of at least 1",
			Code:    "CFG003",
		}
	case errors.Is(err, ErrTooManyTransfers):
		return UserMessage{
			Message: "Too many transfers are in progress",
			Action:  "Please wait a moment and try again",
			Code:    "SRV001",
		}
	}

	// Context cancellation shows up with a well-known message rather than a
	// sentinel we control.
	if strings.Contains(err.Error(), "context canceled") {
		return UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "SRV002",
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "SRV000",
	}
}
