package models

import "fmt"

// Error codes used across the scraper.
const (
	// ErrCodeSetup: the listing page never became ready or the browser
	// could not be launched. Fatal; no partial output is written.
	ErrCodeSetup = "SETUP_FAILED"

	// ErrCodeNavigation: a navigation or element lookup failed.
	ErrCodeNavigation = "NAVIGATION_FAILED"

	// ErrCodePageTimeout: a pagination refresh timed out. Non-fatal;
	// traversal ends and the rows collected so far are preserved.
	ErrCodePageTimeout = "PAGE_TIMEOUT"

	// ErrCodeDocumentFetch: one detail page failed to fetch or parse.
	// Recorded as an error row, the batch continues.
	ErrCodeDocumentFetch = "DOCUMENT_FETCH_FAILED"

	// ErrCodeOutput: writing an output artifact failed. Fatal.
	ErrCodeOutput = "OUTPUT_FAILED"

	// ErrCodeInvalidInput: a malformed input artifact or argument.
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}
