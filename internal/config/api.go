package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/cascade/pkg/formatting"
	"github.com/JaimeStill/cascade/pkg/pagination"
)

const (
	EnvAPIBasePath      = "CASCADE_API_BASE_PATH"
	EnvAPIMaxUploadSize = "CASCADE_API_MAX_UPLOAD_SIZE"
)

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CASCADE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CASCADE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload, and pagination settings.
type APIConfig struct {
	BasePath      string            `toml:"base_path"`
	MaxUploadSize string            `toml:"max_upload_size"`
	Pagination    pagination.Config `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxUploadSize)
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}

	if n, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("max_upload_size: %w", err)
	} else if n <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	c.Pagination.Merge(&overlay.Pagination)
}
