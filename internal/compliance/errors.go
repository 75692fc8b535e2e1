package compliance

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cascade/pkg/repository"
)

var (
	ErrNotFound     = errors.New("compliance record not found")
	ErrDuplicate    = errors.New("compliance record already exists")
	ErrInvalidInput = errors.New("invalid compliance record")
)

// MapHTTPStatus maps compliance domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, repository.ErrInvalidReference):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
