package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch marks network failures, timeouts and non-2xx responses.
	ErrFetch = errors.New("fetch failed")
	// ErrLocatorMiss means no anchor on the page matched the locator.
	ErrLocatorMiss = errors.New("no matching data file link")
	// ErrExtraction marks unreadable workbooks or unexpected sheet layouts.
	ErrExtraction = errors.New("extraction failed")
)

// FetchError describes a failed download.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// Cause returns a short, log friendly description of why a run fell back.
func Cause(err error) string {
	var fe *FetchError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		if fe.StatusCode != 0 {
			return fmt.Sprintf("fetch: status %d", fe.StatusCode)
		}
		return "fetch: transport error"
	case errors.Is(err, ErrLocatorMiss):
		return "locator: no matching link"
	case errors.Is(err, ErrExtraction):
		return "extraction: unreadable spreadsheet"
	default:
		return "unexpected: " + err.Error()
	}
}
