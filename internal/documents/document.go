// Package documents implements the source document domain: upload and blob
// storage, extracted raw text, and the processing status that gates automation.
package documents

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is a document's processing status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReady     Status = "ready"
	StatusAutomated Status = "automated"
)

// Document is a stored source document. RawText is the text handed to the
// extraction service and is omitted from list responses.
type Document struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Filename       string    `json:"filename"`
	ContentType    string    `json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
	PageCount      *int      `json:"page_count"`
	StorageKey     string    `json:"storage_key"`
	Status         Status    `json:"processing_status"`
	RawText        string    `json:"raw_text,omitempty"`
	UploadedAt     time.Time `json:"uploaded_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ExtractionReady reports whether the document can be sent to extraction:
// its text has been supplied and it is ready or was previously automated.
func (d *Document) ExtractionReady() bool {
	if d.Status != StatusReady && d.Status != StatusAutomated {
		return false
	}
	return strings.TrimSpace(d.RawText) != ""
}

// CreateCommand carries an uploaded file and its registration metadata.
// A non-empty RawText registers the document as ready.
type CreateCommand struct {
	Data           []byte
	Filename       string
	ContentType    string
	OrganizationID uuid.UUID
	PageCount      *int
	RawText        string
}
