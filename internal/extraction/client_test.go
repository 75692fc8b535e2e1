package extraction_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/cascade/internal/extraction"
	"github.com/JaimeStill/cascade/pkg/formatting"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const samplePayload = `{
  "document_type": "facility_agreement",
  "confidence": 0.92,
  "facility": {"name": "Revolving Credit Facility", "borrower": "Acme Corp", "currency": "USD", "commitment_amount": 250000000, "confidence": 0.95},
  "covenants": [
    {"name": "Leverage Ratio", "covenant_type": "financial", "threshold": "<= 3.50x", "confidence": 0.9},
    {"name": "Interest Cover", "covenant_type": "financial", "threshold": ">= 4.00x", "confidence": 0.6}
  ],
  "obligations": []
}`

func TestExtract(t *testing.T) {
	var got struct {
		DocumentText string `json:"document_text"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := extraction.NewClient(srv.URL, "secret", 0, discard)
	result, err := c.Extract(context.Background(), "facility agreement text")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if got.DocumentText != "facility agreement text" {
		t.Errorf("document_text = %q", got.DocumentText)
	}
	if auth != "Bearer secret" {
		t.Errorf("authorization = %q, want Bearer secret", auth)
	}
	if result.Facility == nil || result.Facility.Borrower != "Acme Corp" {
		t.Errorf("facility not decoded: %+v", result.Facility)
	}
	if len(result.Covenants) != 2 {
		t.Errorf("covenants = %d, want 2", len(result.Covenants))
	}
}

func TestExtractFencedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```json\n" + samplePayload + "\n```"))
	}))
	defer srv.Close()

	result, err := extraction.NewClient(srv.URL, "", 0, discard).Extract(context.Background(), "text")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if result.DocumentType != "facility_agreement" {
		t.Errorf("document type = %q", result.DocumentType)
	}
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		text    string
		want    error
	}{
		{
			name:    "empty text",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			text:    "",
			want:    extraction.ErrEmptyText,
		},
		{
			name: "service error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model overloaded", http.StatusServiceUnavailable)
			},
			text: "text",
			want: extraction.ErrService,
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("I could not find any covenants."))
			},
			text: "text",
			want: formatting.ErrParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := extraction.NewClient(srv.URL, "", 0, discard).Extract(context.Background(), tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtractTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := extraction.NewClient(srv.URL, "", 50*time.Millisecond, discard).Extract(context.Background(), "text")
	if !errors.Is(err, extraction.ErrService) {
		t.Errorf("err = %v, want ErrService", err)
	}
}
