package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"playlist-hub/internal/catalog"
	"playlist-hub/internal/config"
	"playlist-hub/internal/httpapi"
	"playlist-hub/internal/moderation"
	"playlist-hub/internal/playlist"
	"playlist-hub/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	tracks, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return err
	}
	idx := catalog.NewIndex(tracks, cfg.SearchThreshold)
	logger.Info("catalog loaded", "path", cfg.CatalogPath, "tracks", idx.Len())

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var search catalog.Searcher = idx
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return err
		}
		defer rdb.Close()
		search = catalog.NewCachedSearcher(idx, rdb, cfg.SearchCacheTTL, logger)
	}

	srv := httpapi.NewServer(httpapi.Deps{
		Search: search,
		Tracks: idx,
		Playlists: playlist.NewService(st, idx,
			playlist.WithMaxPerOwner(cfg.MaxPlaylistsPerUser),
			playlist.WithPublicLimit(cfg.PublicPlaylistLimit),
			playlist.WithLogger(logger),
		),
		Gate:      moderation.NewGate(st, moderation.WithLogger(logger)),
		JWTSecret: []byte(cfg.JWTSecret),
		Logger:    logger,
	})

	httpSrv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: srv.Router(
			middleware.RequestID,
			middleware.RealIP,
			httpapi.RequestLogger(logger),
			middleware.Recoverer,
			middleware.Timeout(60*time.Second),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port, "store", cfg.StoreBackend)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("pg: %w", err)
		}
		if err := store.AutoMigrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &pooledStore{PostgresStore: store.NewPostgresStore(pool), pool: pool}, nil
	case config.BackendBadger:
		st, err := store.OpenBadger(store.BadgerConfig{Path: cfg.BadgerPath, Logger: logger})
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return store.NewMemoryStore(nil), nil
	}
}

// pooledStore closes the pool it owns.
type pooledStore struct {
	*store.PostgresStore
	pool *pgxpool.Pool
}

func (s *pooledStore) Close() error {
	s.pool.Close()
	return nil
}

func openRedis(ctx context.Context, url string, logger *slog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, search cache will fall back to the catalog", "err", err)
	}
	return rdb, nil
}
