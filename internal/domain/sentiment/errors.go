package sentiment

import (
	"errors"
	"fmt"
)

// ErrMissingTextColumn is returned when the upload header has no `text` column.
var ErrMissingTextColumn = errors.New("CSV must contain a 'text' column")

// ErrUploadTooLarge is returned when an upload exceeds the configured cap.
var ErrUploadTooLarge = errors.New("upload exceeds maximum allowed size")

// ValidationError rejects a request before any row is scored.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// ProcessingError fails a whole batch. Message is surfaced verbatim to callers.
type ProcessingError struct {
	Row int // 1-based data row, 0 when not tied to a row
	Err error
}

func (e *ProcessingError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return e.Err.Error()
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Row and header failures. These surface wrapped in a ProcessingError.
var (
	ErrEmptyUpload     = errors.New("no columns to parse from file")
	ErrMissingIDColumn = errors.New("CSV must contain an 'id' column")
	ErrEmptyID         = errors.New("id is empty")
	ErrInvalidID       = errors.New("id is not an integer")
	ErrEmptyText       = errors.New("text is empty")
)
