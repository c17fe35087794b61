package router

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"time"

	"epicase/internal/epicase/handler"
	"epicase/internal/epicase/history"
	"epicase/internal/epicase/repository/mocks"
	"epicase/internal/epicase/service"

	"github.com/labstack/echo/v4"
)

func SetupServer(repo *mocks.MockRecordRepository) *echo.Echo {
	engine := history.NewEngine(history.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	}))
	svc := service.NewService(repo, engine, 2)

	e := echo.New()
	RegisterRoutes(e, handler.NewRecordHandler(svc))
	return e
}

func PerformRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
