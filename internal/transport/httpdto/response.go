package httpdto

import (
	"errors"
	"net/http"

	plaza_errors "plaza-chat/pkg/errors"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// FromError maps the engine's sentinel errors onto an HTTP status and error
// envelope, so every surface reports them the same way.
func FromError(err error) (int, Response[any]) {
	switch {
	case errors.Is(err, plaza_errors.ErrNotFound):
		return http.StatusNotFound, NewErrorResponse(err.Error(), "NOT_FOUND")
	case errors.Is(err, plaza_errors.ErrNoActiveConversation):
		return http.StatusBadRequest, NewErrorResponse(err.Error(), "NO_ACTIVE_CONVERSATION")
	case errors.Is(err, plaza_errors.ErrNotGroup), errors.Is(err, plaza_errors.ErrInvalidInput):
		return http.StatusBadRequest, NewErrorResponse(err.Error(), "INVALID_REQUEST")
	case errors.Is(err, plaza_errors.ErrAlreadyExists), errors.Is(err, plaza_errors.ErrConflict):
		return http.StatusConflict, NewErrorResponse(err.Error(), "CONFLICT")
	default:
		return http.StatusInternalServerError, NewErrorResponse(err.Error(), "REQUEST_FAILED")
	}
}
