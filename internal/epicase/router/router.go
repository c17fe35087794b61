package router

import (
	"epicase/internal/epicase/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterRoutes(e *echo.Echo, h *handler.RecordHandler) {
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID, "x-user-id"},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))

	// Health Check
	e.GET("/health", handler.HealthCheck)

	v1 := e.Group("/api/v1")
	v1.Use(handler.RequestIDMiddleware)

	records := v1.Group("/records/:kind")
	records.POST("", h.CreateRecord)
	records.GET("", h.ListRecords)
	records.GET("/:id", h.GetRecord)
	records.PUT("/:id", h.UpdateRecord)
	records.DELETE("/:id", h.DeleteRecord)
	records.POST("/:id/restore", h.RestoreRecord)

	// Version history
	records.GET("/:id/history", h.GetHistory)
	records.GET("/:id/compare", h.CompareVersion)
	records.POST("/:id/restore-version", h.RestoreVersion)
	records.POST("/:id/undo", h.Undo)
	records.POST("/:id/redo", h.Redo)
}
