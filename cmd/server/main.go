package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ocrmatch/internal/app"
	"ocrmatch/internal/config"
	"ocrmatch/internal/observe"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := observe.NewLogger(os.Stderr, cfg.Server.LogLevel, cfg.Server.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "ocrmatch-server"})
	if err != nil {
		log.Error("init metrics", "err", err)
		os.Exit(1)
	}
	defer shutdownMetrics(context.Background())

	eng, err := app.Build(ctx, cfg, app.NewClient(cfg.Redis), log)
	if err != nil {
		log.Error("init error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		log.Error("create output dir", "err", err)
		os.Exit(1)
	}

	s := newServer(eng, observe.DefaultMetrics(), log)
	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error("shutdown", "err", err)
		}
	}

	if err := s.flush(context.Background(), cfg.Paths.OutputDir); err != nil {
		log.Error("flush learning", "err", err)
	}
}
