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

	"moviefav/httpserver"
	"moviefav/movie"
	"moviefav/omdb"
	"moviefav/pkg/config"
	"moviefav/pkg/logger"
	"moviefav/pkg/repository"
	"moviefav/pkg/sentry"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	l, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		l.Fatalw("cannot init sentry", "error", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := repository.Open(ctx, cfg, l)
	if err != nil {
		l.Fatalw("cannot open favorites store", "driver", cfg.Favorites.Driver, "error", err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			l.Errorw("close favorites store", "error", err)
		}
	}()

	provider := omdb.New(omdb.Options{
		APIKey:  cfg.OMDB.APIKey,
		BaseURL: cfg.OMDB.BaseURL,
		Timeout: cfg.OMDB.Timeout,
		Logger:  l.Named("omdb"),
	})

	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithLogger(l.Named("http")),
		httpserver.WithMovieService(movie.NewUsecase(provider, repo)),
	)
	if err != nil {
		l.Fatalw("cannot create server", "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		l.Infow("server started", "addr", server.Addr)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorw("server stopped with error", "error", err)
		}
		return
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Errorw("graceful shutdown failed", "error", err)
	}
}
