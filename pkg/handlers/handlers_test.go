package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/cascade/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   any
	}{
		{name: "200 with map", status: http.StatusOK, data: map[string]string{"key": "value"}},
		{name: "201 with struct", status: http.StatusCreated, data: struct{ ID int }{ID: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			var parsed map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, logger, http.StatusBadRequest, errors.New("invalid input"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}

	var parsed map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["error"] != "invalid input" {
		t.Errorf("error: got %s, want invalid input", parsed["error"])
	}
}

func TestDecodeOptional(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	t.Run("empty body yields zero value", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", http.NoBody)
		got, err := handlers.DecodeOptional[body](req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "" {
			t.Errorf("name = %q, want empty", got.Name)
		}
	})

	t.Run("decodes json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
		got, err := handlers.DecodeOptional[body](req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "x" {
			t.Errorf("name = %q, want x", got.Name)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		if _, err := handlers.DecodeOptional[body](req); err == nil {
			t.Error("expected error for malformed body")
		}
	})
}
