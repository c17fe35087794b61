package handler

import (
	"net/http"

	"epicase/internal/epicase/model"
	"epicase/internal/epicase/service"

	"github.com/labstack/echo/v4"
)

type RecordHandler struct {
	Service service.RecordService
}

func NewRecordHandler(s service.RecordService) *RecordHandler {
	return &RecordHandler{Service: s}
}

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RecordHandler) extractCallerID(c echo.Context) (string, error) {
	callerID := c.Request().Header.Get("x-user-id")
	if callerID == "" {
		return "", service.ErrUnauthorized
	}
	return callerID, nil
}

// fail writes the mapped error with the request ID attached.
func fail(c echo.Context, err error) error {
	code, body := httpError(err)
	body.Error.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	return c.JSON(code, body)
}

func invalid(c echo.Context, err error) error {
	body := validationError(err)
	body.Error.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	return c.JSON(http.StatusBadRequest, body)
}

func badInput(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:      model.CodeBadRequest,
			Message:   msg,
			RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		},
	})
}

// CreateRecord handles POST /records/:kind
func (h *RecordHandler) CreateRecord(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return fail(c, err)
	}

	var req model.CreateRecordReq
	if err := c.Bind(&req); err != nil {
		return badInput(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.Create(c.Request().Context(), callerID, c.Param("kind"), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListRecords handles GET /records/:kind
func (h *RecordHandler) ListRecords(c echo.Context) error {
	var req model.ListRecordsReq
	if err := c.Bind(&req); err != nil {
		return badInput(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.List(c.Request().Context(), c.Param("kind"), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRecord handles GET /records/:kind/:id
func (h *RecordHandler) GetRecord(c echo.Context) error {
	resp, err := h.Service.Get(c.Request().Context(), c.Param("kind"), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateRecord handles PUT /records/:kind/:id
func (h *RecordHandler) UpdateRecord(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return fail(c, err)
	}

	var req model.UpdateRecordReq
	if err := c.Bind(&req); err != nil {
		return badInput(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.Update(c.Request().Context(), callerID, c.Param("kind"), c.Param("id"), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteRecord handles DELETE /records/:kind/:id
func (h *RecordHandler) DeleteRecord(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.Service.Delete(c.Request().Context(), callerID, c.Param("kind"), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// RestoreRecord handles POST /records/:kind/:id/restore
func (h *RecordHandler) RestoreRecord(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return fail(c, err)
	}

	resp, err := h.Service.Restore(c.Request().Context(), callerID, c.Param("kind"), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetHistory handles GET /records/:kind/:id/history
func (h *RecordHandler) GetHistory(c echo.Context) error {
	resp, err := h.Service.History(c.Request().Context(), c.Param("kind"), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RestoreVersion handles POST /records/:kind/:id/restore-version
func (h *RecordHandler) RestoreVersion(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return fail(c, err)
	}

	var req model.RestoreVersionReq
	if err := c.Bind(&req); err != nil {
		return badInput(c, "Invalid body")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.RestoreToVersion(c.Request().Context(), callerID, c.Param("kind"), c.Param("id"), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Undo handles POST /records/:kind/:id/undo
func (h *RecordHandler) Undo(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return fail(c, err)
	}

	resp, err := h.Service.Undo(c.Request().Context(), callerID, c.Param("kind"), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Redo handles POST /records/:kind/:id/redo
func (h *RecordHandler) Redo(c echo.Context) error {
	callerID, err := h.extractCallerID(c)
	if err != nil {
		return fail(c, err)
	}

	resp, err := h.Service.Redo(c.Request().Context(), callerID, c.Param("kind"), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// CompareVersion handles GET /records/:kind/:id/compare?index=
func (h *RecordHandler) CompareVersion(c echo.Context) error {
	var req model.CompareVersionReq
	if err := c.Bind(&req); err != nil {
		return badInput(c, "Invalid parameters")
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}

	resp, err := h.Service.Compare(c.Request().Context(), c.Param("kind"), c.Param("id"), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
