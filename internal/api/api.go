// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/cascade/internal/config"
	"github.com/JaimeStill/cascade/internal/infrastructure"
	"github.com/JaimeStill/cascade/pkg/middleware"
	"github.com/JaimeStill/cascade/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	mux := http.NewServeMux()
	patterns := registerRoutes(mux, domain, runtime, cfg)
	runtime.Logger.Info("routes registered", "count", len(patterns))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.WithRequestID())
	m.Use(middleware.Recovery(runtime.Logger))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
