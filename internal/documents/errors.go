package documents

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicate    = errors.New("document already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrInvalidID    = errors.New("invalid document id")
	ErrInvalidOrg   = errors.New("organization_id must be a valid uuid")
	ErrEmptyText    = errors.New("raw text must not be empty")
)

// MapHTTPStatus maps document domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidOrg),
		errors.Is(err, ErrEmptyText):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
