package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"location-hierarchy/internal/api"
	"location-hierarchy/internal/app"
	"location-hierarchy/internal/config"
	"location-hierarchy/internal/logger"
	"location-hierarchy/internal/metrics"
	"location-hierarchy/internal/middleware"
	"location-hierarchy/internal/utils"
)

func main() {
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Debug("config_api_base", "base", cfg.APIBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, nil, nil)
	if err != nil {
		l.Error("app_init_error", "err", err)
		os.Exit(1)
	}
	defer a.Close()
	if a.Manager != nil {
		a.Manager.Start(ctx)
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(a.Deps())
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.RequestID(handler)
	handler = middleware.RateLimit(handler, cfg.RateLimit, cfg.RateLimitQPS)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "location-hierarchy.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		err = s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		l.Info("listening", "addr", cfg.Addr)
		err = s.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
	l.Info("server_stopped")
}
