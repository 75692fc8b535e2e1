package deals

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cascade/pkg/repository"
)

var (
	ErrNotFound     = errors.New("deal record not found")
	ErrDuplicate    = errors.New("deal record already exists")
	ErrInvalidInput = errors.New("invalid deal record")
)

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
