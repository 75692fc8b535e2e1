package documents

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/pkg/query"
	"github.com/JaimeStill/cascade/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("organization_id", "OrganizationID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("processing_status", "Status").
	Project("raw_text", "RawText").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "UploadedAt", Descending: true}

const returning = `RETURNING id, organization_id, filename, content_type, size_bytes,
		page_count, storage_key, processing_status, raw_text, uploaded_at, updated_at`

// Filters narrows document listings. Nil fields are ignored; Filename matches
// case-insensitively as a substring and the rest match exactly.
type Filters struct {
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	Status         *string    `json:"processing_status,omitempty"`
	Filename       *string    `json:"filename,omitempty"`
	ContentType    *string    `json:"content_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("OrganizationID", f.OrganizationID).
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType)
}

// FiltersFromQuery reads filters from URL query parameters. A malformed
// organization_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("organization_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.OrganizationID = &id
		}
	}
	if v := values.Get("processing_status"); v != "" {
		f.Status = &v
	}
	if v := values.Get("filename"); v != "" {
		f.Filename = &v
	}
	if v := values.Get("content_type"); v != "" {
		f.ContentType = &v
	}
	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.OrganizationID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.Status,
		&d.RawText,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}
