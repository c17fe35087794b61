package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"epicase/internal/epicase/config"
	"epicase/internal/epicase/handler"
	"epicase/internal/epicase/history"
	"epicase/internal/epicase/repository"
	"epicase/internal/epicase/router"
	"epicase/internal/epicase/service"
	"epicase/internal/epicase/util"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		util.GetLogger().Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. Init Logger
	util.InitLogger(cfg.LogLevel)
	logger := util.GetLogger()

	// 3. Init MongoDB. Nested documents decode to maps so stored field values
	// compare equal to the JSON values clients send.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("Failed to ping MongoDB", "error", err)
		os.Exit(1)
	}

	// 4. Init Layers
	db := client.Database(cfg.DBName)
	repo := repository.NewMongoRepository(db, cfg.Collections)

	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure indexes", "error", err)
	}

	svc := service.NewService(repo, history.NewEngine(), cfg.SaveMaxAttempts)
	h := handler.NewRecordHandler(svc)

	// 5. Init Echo & Routes
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", v.RequestID,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	router.RegisterRoutes(e, h)

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}

	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("Failed to disconnect DB", "error", err)
	}

	logger.Info("Server exited properly")
}
