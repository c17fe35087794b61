package handler

import (
	"errors"
	"net/http"

	"epicase/internal/epicase/history"
	"epicase/internal/epicase/model"
	"epicase/internal/epicase/repository"
	"epicase/internal/epicase/service"
)

// Helper to map errors to HTTP status and body
func httpError(err error) (int, model.ErrorResponse) {
	var code string
	var msg string
	var status int

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		code = model.CodeUnauthorized
		msg = "Unauthorized"
	case errors.Is(err, repository.ErrUnknownKind):
		status = http.StatusNotFound
		code = model.CodeNotFound
		msg = err.Error()
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
		code = model.CodeNotFound
		msg = "Record not found"
	case errors.Is(err, repository.ErrRevisionConflict):
		status = http.StatusConflict
		code = model.CodeConflict
		msg = "Record was modified by another request, reload and retry"
	case errors.Is(err, service.ErrNotDeleted):
		status = http.StatusConflict
		code = model.CodeConflict
		msg = "Record is not deleted"
	case errors.Is(err, history.ErrValidationFailure), errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
		code = model.CodeBadRequest
		msg = err.Error()
	case errors.Is(err, history.ErrInvalidOperation):
		status = http.StatusBadRequest
		code = model.CodeInvalidOperation
		msg = err.Error()
	case errors.Is(err, history.ErrOutOfRange):
		status = http.StatusBadRequest
		code = model.CodeOutOfRange
		msg = err.Error()
	case errors.Is(err, history.ErrNoPriorState):
		status = http.StatusUnprocessableEntity
		code = model.CodeNoPriorState
		msg = err.Error()
	default:
		status = http.StatusInternalServerError
		code = model.CodeInternal
		msg = "Internal server error"
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: msg},
	}
}

// validationError wraps a request Validate() failure.
func validationError(err error) model.ErrorResponse {
	var detail *model.ErrorDetail
	if errors.As(err, &detail) {
		return model.ErrorResponse{Error: *detail}
	}
	return model.ErrorResponse{
		Error: model.ErrorDetail{Code: model.CodeBadRequest, Message: err.Error()},
	}
}
