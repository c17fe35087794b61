package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"epicase/internal/epicase/history"
	"epicase/internal/epicase/model"
	"epicase/internal/epicase/repository"
	"epicase/internal/epicase/service"

	"github.com/stretchr/testify/assert"
)

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, model.CodeUnauthorized},
		{"unknown kind", fmt.Errorf("%w: forma61", repository.ErrUnknownKind), http.StatusNotFound, model.CodeNotFound},
		{"not found", repository.ErrNotFound, http.StatusNotFound, model.CodeNotFound},
		{"revision conflict", repository.ErrRevisionConflict, http.StatusConflict, model.CodeConflict},
		{"not deleted", service.ErrNotDeleted, http.StatusConflict, model.CodeConflict},
		{"validation", fmt.Errorf("%w: field %q", history.ErrValidationFailure, "age"), http.StatusBadRequest, model.CodeBadRequest},
		{"invalid operation", fmt.Errorf("%w: nothing to undo", history.ErrInvalidOperation), http.StatusBadRequest, model.CodeInvalidOperation},
		{"out of range", fmt.Errorf("%w: 9", history.ErrOutOfRange), http.StatusBadRequest, model.CodeOutOfRange},
		{"no prior state", fmt.Errorf("%w: entry 0", history.ErrNoPriorState), http.StatusUnprocessableEntity, model.CodeNoPriorState},
		{"internal", errors.New("socket closed"), http.StatusInternalServerError, model.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := httpError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}

	_, body := httpError(errors.New("socket closed"))
	assert.NotContains(t, body.Error.Message, "socket")
}

func TestValidationError(t *testing.T) {
	body := validationError(&model.ErrorDetail{Code: model.CodeBadRequest, Message: "index is required"})
	assert.Equal(t, "index is required", body.Error.Message)

	body = validationError(errors.New("plain"))
	assert.Equal(t, model.CodeBadRequest, body.Error.Code)
	assert.Equal(t, "plain", body.Error.Message)
}
