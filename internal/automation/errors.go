package automation

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cascade/internal/documents"
)

var (
	ErrDocumentNotReady = errors.New("document has no extracted text")
	ErrRunInProgress    = errors.New("automation already running for document")
	ErrResultNotFound   = errors.New("lifecycle result not found")
	ErrInvalidOverrides = errors.New("invalid automation overrides")
	ErrEmptyBatch       = errors.New("batch must name at least one document")
	ErrInvalidID        = errors.New("invalid document id")
)

// MapHTTPStatus maps automation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrDocumentNotReady):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrResultNotFound),
		errors.Is(err, documents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidOverrides),
		errors.Is(err, ErrEmptyBatch),
		errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
