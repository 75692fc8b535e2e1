// Package routes declares HTTP route tables and registers them on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and path pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group nests routes beneath a shared path prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register mounts every route in groups on mux and returns the registered
// ServeMux patterns in registration order.
func Register(mux *http.ServeMux, groups ...Group) []string {
	var patterns []string
	for _, g := range groups {
		patterns = g.register(mux, "", patterns)
	}
	return patterns
}

func (g Group) register(mux *http.ServeMux, parent string, patterns []string) []string {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		pattern := r.Method + " " + prefix + r.Pattern
		mux.HandleFunc(pattern, r.Handler)
		patterns = append(patterns, pattern)
	}
	for _, child := range g.Children {
		patterns = child.register(mux, prefix, patterns)
	}
	return patterns
}
