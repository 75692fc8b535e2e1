// Package module mounts prefixed HTTP sub-applications, each with its own
// middleware stack, behind a single top-level router.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/cascade/pkg/middleware"
)

// Module serves every request under a single-segment prefix such as "/api".
// The prefix is stripped before the inner handler sees the request.
type Module struct {
	prefix string
	inner  http.Handler
	stack  middleware.System
}

// New creates a Module. It panics on an invalid prefix.
func New(prefix string, inner http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix: prefix,
		inner:  inner,
		stack:  middleware.New(),
	}
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string { return m.prefix }

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// ServeHTTP strips the prefix and runs the request through the middleware stack.
func (m *Module) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.stack.Apply(m.inner).ServeHTTP(w, strip(r, m.prefix))
}

func strip(r *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	out := r.Clone(r.Context())
	u := *r.URL
	u.Path = path
	u.RawPath = ""
	out.URL = &u
	return out
}

var _ http.Handler = (*Module)(nil)

func checkPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
