package trading_test

import (
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/trading"
)

func TestFiltersFromQuery(t *testing.T) {
	doc := uuid.New()

	f := trading.FiltersFromQuery(url.Values{
		"document_id": {doc.String()},
		"priority":    {"high"},
		"completed":   {"false"},
	})

	if f.DocumentID == nil || *f.DocumentID != doc {
		t.Errorf("DocumentID = %v, want %v", f.DocumentID, doc)
	}
	if f.Priority == nil || *f.Priority != "high" {
		t.Errorf("Priority = %v, want high", f.Priority)
	}
	if f.Completed == nil || *f.Completed {
		t.Errorf("Completed = %v, want false", f.Completed)
	}
	if f.FacilityID != nil || f.Category != nil {
		t.Errorf("unset filters should be nil: %+v", f)
	}
}

func TestFiltersFromQueryInvalidBool(t *testing.T) {
	f := trading.FiltersFromQuery(url.Values{"completed": {"sometimes"}})
	if f.Completed != nil {
		t.Errorf("Completed = %v, want nil", *f.Completed)
	}
}
