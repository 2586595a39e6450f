package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiwari-pos/storefront/internal/catalog"
	"github.com/kiwari-pos/storefront/internal/config"
	"github.com/kiwari-pos/storefront/internal/customize"
	"github.com/kiwari-pos/storefront/internal/logger"
	"github.com/kiwari-pos/storefront/internal/order"
	"github.com/kiwari-pos/storefront/internal/router"
	"github.com/kiwari-pos/storefront/internal/service"
	"github.com/kiwari-pos/storefront/internal/session"
	"github.com/kiwari-pos/storefront/internal/ws"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := session.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer closeStore()

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	gateway := catalog.NewClient(cfg.GatewayURL, cfg.CategoryPath, cfg.GatewayTimeout, log)
	submitter := order.NewSubmitter(gateway, ws.NewNavigator(hub), cfg.GatewayTimeout, log)

	policy := customize.KeepSelections
	if cfg.ResetOnDismiss {
		policy = customize.ResetSelections
	}
	svc := service.NewStorefront(gateway, store, submitter, policy, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(cfg, svc, store, hub, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("session_backend", cfg.SessionBackend),
			zap.String("gateway", cfg.GatewayURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
