package api

import (
	"net/http"

	"github.com/JaimeStill/cascade/internal/config"
	"github.com/JaimeStill/cascade/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
	cfg *config.Config,
) []string {
	files := newFileHandler(domain.Documents, runtime.Storage, runtime.Logger)

	return routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		files.routes(),
		domain.Compliance.Handler().Routes(),
		domain.Deals.Handler().Routes(),
		domain.Trading.Handler().Routes(),
		domain.ESG.Handler().Routes(),
		domain.Automation.Handler().Routes(),
	)
}
