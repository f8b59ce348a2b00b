// Package app wires configuration into the storage, provider and service
// layers shared by the API server and the snapshot CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/analytubeapp-coder/analytube/internal/config"
	"github.com/analytubeapp-coder/analytube/internal/db"
	"github.com/analytubeapp-coder/analytube/internal/metrics"
	"github.com/analytubeapp-coder/analytube/internal/repository"
	"github.com/analytubeapp-coder/analytube/internal/retry"
	"github.com/analytubeapp-coder/analytube/internal/service"
	"github.com/analytubeapp-coder/analytube/internal/youtube"
)

// App holds the long-lived dependencies. Close releases them.
type App struct {
	Pool  *pgxpool.Pool
	Cache *service.CacheService

	Channels  *service.ChannelService
	Snapshots *service.SnapshotService
	Growth    *service.GrowthService
	Ranker    *service.VideoRanker
	Batch     *service.BatchSnapshotter
}

// New connects to Postgres, applies the schema, builds the YouTube client and
// every service.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	metrics.Register(pool)

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.RetryMaxAttempts
	policy.InitialBackoff = cfg.RetryInitialBackoff
	policy.MaxBackoff = cfg.RetryMaxBackoff

	provider, err := youtube.NewClient(ctx, youtube.Options{
		APIKey:   cfg.YouTubeAPIKey,
		Endpoint: cfg.YouTubeEndpoint,
		RPS:      cfg.YouTubeRPS,
		Burst:    cfg.YouTubeBurst,
		Retry:    policy,
		Observer: metrics.ObserveProviderCall,
		Logger:   logger,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	channelRepo := repository.NewChannelRepo(pool)
	snapshotRepo := repository.NewSnapshotRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)

	cache := service.NewCacheService(cfg.RedisURL, logger)
	fetcher := service.NewStatsFetcher(provider, logger)
	snapshots := service.NewSnapshotService(fetcher, channelRepo, snapshotRepo, cache, logger)

	return &App{
		Pool:      pool,
		Cache:     cache,
		Channels:  service.NewChannelService(fetcher, channelRepo, snapshots, cache, logger),
		Snapshots: snapshots,
		Growth:    service.NewGrowthService(snapshotRepo, channelRepo, videoRepo, snapshots, cache, cfg.BackfillEnabled, logger),
		Ranker:    service.NewVideoRanker(provider, videoRepo, logger),
		Batch:     service.NewBatchSnapshotter(channelRepo, snapshots, cfg.BatchPacing, logger),
	}, nil
}

func (a *App) Close() {
	_ = a.Cache.Close()
	a.Pool.Close()
}
