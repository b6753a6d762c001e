// Package module mounts routers under single-level path prefixes, each with
// its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"tagsight/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an inner
// router wrapped in the module's middleware stack.
type Module struct {
	prefix     string
	inner      http.Handler
	middleware middleware.System
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, inner http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		inner:      inner,
		middleware: middleware.New(),
	}
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// ServeHTTP strips the module prefix and dispatches through the middleware
// stack to the inner router.
func (m *Module) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := m.middleware.Apply(http.StripPrefix(m.prefix, m.inner))
	handler.ServeHTTP(w, r)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
