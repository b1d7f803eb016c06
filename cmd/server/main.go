package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

    "quoteapi/internal/config"
    "quoteapi/internal/httpx"
    "quoteapi/internal/logging"
    "quoteapi/internal/provider/registry"
    "quoteapi/internal/quote"
)

func main() {
    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    log := logging.New(cfg.Log)
    if err != nil { log.WithError(err).Fatal("config") }

    if cfg.UsingDefaultAPIKey {
        log.Warnf("API_KEY not set; using insecure default %q", config.InsecureDefaultAPIKey)
    }

    timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
    httpClient := httpx.New(timeout)

    p, err := registry.New(cfg, httpClient, log)
    if err != nil { log.WithError(err).Fatal("provider") }

    s := &server{
        svc:        quote.NewService(p, cfg.Provider.MaxConcurrency, log),
        apiKey:     cfg.Auth.APIKey,
        maxSymbols: cfg.Server.MaxSymbols,
        timeout:    timeout,
        now:        time.Now,
        log:        log,
    }

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           otelhttp.NewHandler(s.routes(), "quoteapi"),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      timeout + 15*time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.WithField("port", cfg.Server.Port).Info("server listening")
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.WithError(err).Fatal("server")
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.WithError(err).Warn("shutdown")
    }
}
