package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/cascade/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"

[server]
port = 8080

[database]
name = "cascade"
user = "cascade"
password = "cascade"

[storage]
connection_string = "UseDevelopmentStorage=true"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50

[extraction]
endpoint = "http://localhost:9000/extract"

[automation]
confidence_threshold = 0.75
batch_limit = 2
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[automation]
auto_confirm_low_risk = true
confidence_threshold = 0.0
`

const minimalConfig = `
[database]
name = "cascade"
user = "cascade"

[storage]
connection_string = "conn"

[extraction]
endpoint = "http://extractor:9000"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("database host default: got %q, want localhost", cfg.Database.Host)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("default page size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if got := cfg.Automation.Threshold(); got != 0.75 {
		t.Errorf("confidence threshold: got %v, want 0.75", got)
	}
	if cfg.Automation.BatchLimit != 2 {
		t.Errorf("batch limit: got %d, want 2", cfg.Automation.BatchLimit)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %q", cfg.Server.Addr())
	}
	if cfg.API.MaxUploadSizeBytes() != 50*1024*1024 {
		t.Errorf("max upload size: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.Automation.Threshold() != 0.8 {
		t.Errorf("threshold default: got %v, want 0.8", cfg.Automation.Threshold())
	}
	if cfg.Automation.AutoConfirm() {
		t.Error("auto confirm should default to false")
	}
	if cfg.Automation.ProgressTTLDuration() != 0 {
		t.Errorf("progress ttl default: got %v, want 0", cfg.Automation.ProgressTTLDuration())
	}
	if cfg.Automation.BatchLimit != 4 {
		t.Errorf("batch limit default: got %d, want 4", cfg.Automation.BatchLimit)
	}
	if cfg.Extraction.TimeoutDuration() != 0 {
		t.Errorf("extraction timeout should be unbounded by default")
	}
	if cfg.Storage.ContainerName != "documents" {
		t.Errorf("container default: got %q", cfg.Storage.ContainerName)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.prod.toml", overlayConfig)
	t.Chdir(dir)
	t.Setenv(config.EnvCascadeEnv, "prod")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("overlay port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("overlay host: got %q, want prodhost", cfg.Database.Host)
	}
	if cfg.Database.Name != "cascade" {
		t.Errorf("base name should survive overlay: got %q", cfg.Database.Name)
	}
	if !cfg.Automation.AutoConfirm() {
		t.Error("overlay should enable auto confirm")
	}
	if cfg.Automation.Threshold() != 0 {
		t.Errorf("overlay should set threshold to zero: got %v", cfg.Automation.Threshold())
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	t.Chdir(dir)

	t.Setenv("CASCADE_SERVER_PORT", "7070")
	t.Setenv("CASCADE_DB_HOST", "envhost")
	t.Setenv(config.EnvAutomationConfidenceThreshold, "0.6")
	t.Setenv(config.EnvAutomationProgressTTL, "1h")
	t.Setenv(config.EnvExtractionTimeout, "90s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port: got %d, want 7070", cfg.Server.Port)
	}
	if cfg.Database.Host != "envhost" {
		t.Errorf("db host: got %q, want envhost", cfg.Database.Host)
	}
	if cfg.Automation.Threshold() != 0.6 {
		t.Errorf("threshold: got %v, want 0.6", cfg.Automation.Threshold())
	}
	if cfg.Automation.ProgressTTLDuration() != time.Hour {
		t.Errorf("ttl: got %v, want 1h", cfg.Automation.ProgressTTLDuration())
	}
	if cfg.Extraction.TimeoutDuration() != 90*time.Second {
		t.Errorf("extraction timeout: got %v, want 90s", cfg.Extraction.TimeoutDuration())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing extraction endpoint",
			content: strings.Replace(minimalConfig, `endpoint = "http://extractor:9000"`, "", 1),
			want:    "extraction",
		},
		{
			name:    "threshold out of range",
			content: minimalConfig + "\n[automation]\nconfidence_threshold = 1.5\n",
			want:    "confidence_threshold",
		},
		{
			name:    "bad upload size",
			content: minimalConfig + "\n[api]\nmax_upload_size = \"lots\"\n",
			want:    "max_upload_size",
		},
		{
			name:    "missing database name",
			content: strings.Replace(minimalConfig, `name = "cascade"`, "", 1),
			want:    "database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, config.BaseConfigFile, tt.content)
			t.Chdir(dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}
