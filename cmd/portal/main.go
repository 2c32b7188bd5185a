package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/config"
	"github.com/spec-kit/fras-portal/internal/observability"
	"github.com/spec-kit/fras-portal/internal/portal"
)

const appName = "fras-portal"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, appName)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics(strings.ReplaceAll(appName, "-", "_"))
	proxy := portal.NewProxy(cfg.Portal.BackendURL, cfg.Portal.RequestTimeout(), logger)
	app := portal.NewApp(appName, logger, metrics, proxy)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Portal.Addr()), zap.String("backend", cfg.Portal.BackendURL))
		if err := app.Listen(cfg.Portal.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))

	_ = app.Shutdown()
}
