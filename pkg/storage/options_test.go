package storage

import (
	"strings"
	"testing"
	"time"
)

func TestCoreOptions(t *testing.T) {
	opts := coreOptions()

	if opts.Retry.MaxRetries != 3 {
		t.Errorf("max retries = %d, want 3", opts.Retry.MaxRetries)
	}
	if opts.Retry.RetryDelay != 500*time.Millisecond {
		t.Errorf("retry delay = %v, want 500ms", opts.Retry.RetryDelay)
	}
	if opts.Telemetry.ApplicationID != "cascade" {
		t.Errorf("application id = %q, want cascade", opts.Telemetry.ApplicationID)
	}
}

func TestNewClientAppliesOptions(t *testing.T) {
	cfg := &Config{
		ContainerName:    "documents",
		ConnectionString: "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;",
	}

	client, err := newClient(cfg)
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	if got := client.URL(); !strings.HasPrefix(got, "http://127.0.0.1:10000/devstoreaccount1") {
		t.Errorf("client url = %q", got)
	}
}
