package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	delivery "ipo-hype-tracker/internal/digest/delivery/http"
	"ipo-hype-tracker/internal/digest/delivery/scheduler"
	_ "ipo-hype-tracker/internal/digest/docs"
	"ipo-hype-tracker/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the digest HTTP API and the cron trigger",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		log.Fatalf("Failed to initialize digest service: %v", err)
	}
	defer a.Close()

	appLogger := a.logger
	cfg := a.cfg
	appLogger.Info("Starting Digest Service", logger.Field("name", cfg.App.Name))

	if cfg.Schedule.Enabled {
		cronScheduler, err := scheduler.NewCronScheduler(cfg.Schedule.Cron, cfg.Schedule.Timezone, a.digestService, cfg.Pipeline.RunTimeout, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
		}
		go cronScheduler.Start(ctx)
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	digestHandler := delivery.NewDigestHandler(ctx, a.digestService, cfg.Pipeline.RunTimeout, appLogger)
	apiV1 := e.Group("/api/v1")
	digestHandler.RegisterRoutes(apiV1.Group("/digests"))

	e.GET("/health", delivery.Health)
	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}
