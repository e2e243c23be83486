package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/places-sync/internal/bootstrap"
	"github.com/octobees/places-sync/internal/config"
	"github.com/octobees/places-sync/internal/handler"
	middlewarepkg "github.com/octobees/places-sync/internal/middleware"
	"github.com/octobees/places-sync/internal/router"
	"github.com/octobees/places-sync/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialise: %v", err)
	}
	defer app.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, app.JWT, router.Handlers{
		Places:      handler.NewPlacesHandler(app.Places),
		AdminUpload: handler.NewAdminUploadHandler(app.Places),
		Sync:        handler.NewSyncHandler(app.Sync),
	})

	runCtx, stopRuns := context.WithCancel(context.Background())
	defer stopRuns()
	sweeps := scheduler.New(app.Sync, cfg.SweepInterval)
	go sweeps.Run(runCtx)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("listening on :%s region=%q", cfg.Port, cfg.Region.Name)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	stopRuns()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
