package api

import (
	"errors"
	"fmt"
)

// Error is a structured failure reported by the storefront API. Detail is the
// server's human-readable message, empty when the response carried none.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.Status)
	}
	return fmt.Sprintf("api: request failed with status %d", e.Status)
}

// Detail extracts the server's message from err for display. Failures without
// a server-reported detail fall back to the given message.
func Detail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
