package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verano-labs/go-entity-cache/internal/config"
	"github.com/verano-labs/go-entity-cache/internal/httpapi"
	"github.com/verano-labs/go-entity-cache/internal/maintenance"
	"github.com/verano-labs/go-entity-cache/logging"
	"github.com/verano-labs/go-entity-cache/pkg/di"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Error("configuration failed", zap.Error(err))
		return err
	}

	channels, err := logging.New(logging.Config{Dir: cfg.LogDir})
	if err != nil {
		zap.NewExample().Error("logging setup failed", zap.Error(err))
		return err
	}
	defer channels.Sync()
	errs := channels.Error()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)

	container, err := di.New(ctx, cfg, channels)
	if err != nil {
		errs.Error("startup failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			errs.Error("shutdown cleanup failed", zap.Error(err))
		}
	}()

	janitor := maintenance.NewJanitor(channels.LogFiles(), cfg.LogCleanupInterval, errs)
	janitor.Start(ctx)
	defer janitor.Stop()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(channels, container),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	channels.Traffic().Info("server started", zap.String("addr", cfg.HTTPAddr))

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs.Error("server failed", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs.Error("server shutdown failed", zap.Error(err))
		return err
	}

	channels.Traffic().Info("server stopped")
	return nil
}
