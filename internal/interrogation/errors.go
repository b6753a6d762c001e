package interrogation

import (
	"errors"
	"net/http"

	"tagsight/internal/backend"
)

// Domain errors for interrogation operations.
var (
	ErrNoImage = errors.New("no image supplied")
)

// MapHTTPStatus maps interrogation errors to appropriate HTTP status codes,
// deferring to the backend taxonomy for client failures.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoImage) {
		return http.StatusBadRequest
	}
	if errors.Is(err, backend.ErrConfiguration) {
		return http.StatusPreconditionFailed
	}
	return backend.MapHTTPStatus(err)
}
