package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	EnvExtractionEndpoint = "CASCADE_EXTRACTION_ENDPOINT"
	EnvExtractionToken    = "CASCADE_EXTRACTION_TOKEN"
	EnvExtractionTimeout  = "CASCADE_EXTRACTION_TIMEOUT"
)

// ExtractionConfig locates the external extraction service.
// An empty Timeout means the call is not bounded.
type ExtractionConfig struct {
	Endpoint string `toml:"endpoint"`
	Token    string `toml:"token"`
	Timeout  string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration, zero when unset.
func (c *ExtractionConfig) TimeoutDuration() time.Duration { return duration(c.Timeout) }

// Finalize applies environment overrides and validation. There are no defaults.
func (c *ExtractionConfig) Finalize() error {
	envOverride(EnvExtractionEndpoint, &c.Endpoint)
	envOverride(EnvExtractionToken, &c.Token)
	envOverride(EnvExtractionTimeout, &c.Timeout)

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid endpoint: %q", c.Endpoint)
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		} else if d < 0 {
			return fmt.Errorf("timeout cannot be negative")
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	mergeString(&c.Endpoint, overlay.Endpoint)
	mergeString(&c.Token, overlay.Token)
	mergeString(&c.Timeout, overlay.Timeout)
}
