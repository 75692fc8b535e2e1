package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvAutomationConfidenceThreshold = "CASCADE_AUTOMATION_CONFIDENCE_THRESHOLD"
	EnvAutomationAutoConfirm         = "CASCADE_AUTOMATION_AUTO_CONFIRM_LOW_RISK"
	EnvAutomationProgressTTL         = "CASCADE_AUTOMATION_PROGRESS_TTL"
	EnvAutomationBatchLimit          = "CASCADE_AUTOMATION_BATCH_LIMIT"
)

// AutomationConfig holds run defaults applied when a caller sends no override.
// ConfidenceThreshold and AutoConfirmLowRisk are pointers so an overlay can
// set them to their zero values.
type AutomationConfig struct {
	ConfidenceThreshold *float64 `toml:"confidence_threshold"`
	AutoConfirmLowRisk  *bool    `toml:"auto_confirm_low_risk"`
	ProgressTTL         string   `toml:"progress_ttl"`
	BatchLimit          int      `toml:"batch_limit"`
}

// Threshold returns the finalized confidence threshold.
func (c *AutomationConfig) Threshold() float64 {
	if c.ConfidenceThreshold == nil {
		return 0.8
	}
	return *c.ConfidenceThreshold
}

// AutoConfirm returns the finalized auto-confirm default.
func (c *AutomationConfig) AutoConfirm() bool {
	return c.AutoConfirmLowRisk != nil && *c.AutoConfirmLowRisk
}

// ProgressTTLDuration returns ProgressTTL; zero keeps progress entries forever.
func (c *AutomationConfig) ProgressTTLDuration() time.Duration { return duration(c.ProgressTTL) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AutomationConfig) Finalize() error {
	if c.ConfidenceThreshold == nil {
		v := 0.8
		c.ConfidenceThreshold = &v
	}
	if c.AutoConfirmLowRisk == nil {
		v := false
		c.AutoConfirmLowRisk = &v
	}
	setDefault(&c.ProgressTTL, "0s")
	if c.BatchLimit == 0 {
		c.BatchLimit = 4
	}

	if v := os.Getenv(EnvAutomationConfidenceThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAutomationConfidenceThreshold, err)
		}
		c.ConfidenceThreshold = &f
	}
	if v := os.Getenv(EnvAutomationAutoConfirm); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAutomationAutoConfirm, err)
		}
		c.AutoConfirmLowRisk = &b
	}
	envOverride(EnvAutomationProgressTTL, &c.ProgressTTL)
	if v := os.Getenv(EnvAutomationBatchLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAutomationBatchLimit, err)
		}
		c.BatchLimit = n
	}

	if t := *c.ConfidenceThreshold; t < 0 || t > 1 {
		return fmt.Errorf("confidence_threshold must be within [0, 1]: %v", t)
	}
	if d, err := time.ParseDuration(c.ProgressTTL); err != nil {
		return fmt.Errorf("invalid progress_ttl: %w", err)
	} else if d < 0 {
		return fmt.Errorf("progress_ttl cannot be negative")
	}
	if c.BatchLimit < 1 {
		return fmt.Errorf("batch_limit must be positive")
	}
	return nil
}

// Merge overwrites set fields from overlay.
func (c *AutomationConfig) Merge(overlay *AutomationConfig) {
	if overlay.ConfidenceThreshold != nil {
		c.ConfidenceThreshold = overlay.ConfidenceThreshold
	}
	if overlay.AutoConfirmLowRisk != nil {
		c.AutoConfirmLowRisk = overlay.AutoConfirmLowRisk
	}
	mergeString(&c.ProgressTTL, overlay.ProgressTTL)
	if overlay.BatchLimit != 0 {
		c.BatchLimit = overlay.BatchLimit
	}
}
