// Package backend defines the error taxonomy shared by the classifier
// backend clients. Configuration errors fail fast before any network call;
// network and parse errors are either surfaced or absorbed depending on
// which pipeline path raised them.
package backend

import (
	"errors"
	"net/http"
)

// Error kinds for backend operations.
var (
	// ErrConfiguration marks a missing or invalid endpoint or credential,
	// detected before any network call.
	ErrConfiguration = errors.New("backend configuration invalid")

	// ErrNetwork marks a transport failure calling an external service.
	ErrNetwork = errors.New("backend unreachable")

	// ErrParse marks a response that could not be decoded into the
	// expected shape.
	ErrParse = errors.New("backend response unparseable")
)

// MapHTTPStatus maps backend errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrConfiguration) {
		return http.StatusPreconditionFailed
	}
	if errors.Is(err, ErrNetwork) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrParse) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
