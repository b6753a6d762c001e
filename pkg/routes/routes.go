// Package routes defines declarative route groups registered onto a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux, joining
// nested group prefixes into full patterns.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		register(mux, "", g)
	}
}

func register(mux *http.ServeMux, prefix string, g Group) {
	full := prefix + g.Prefix
	for _, r := range g.Routes {
		mux.HandleFunc(r.Method+" "+full+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		register(mux, full, child)
	}
}
