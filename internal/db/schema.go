package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied in order on startup. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS channels (
		channel_id    VARCHAR(32) PRIMARY KEY,
		title         TEXT,
		description   TEXT,
		thumbnail_url TEXT,
		country       VARCHAR(8),
		subscribers   BIGINT NOT NULL DEFAULT 0,
		views         BIGINT NOT NULL DEFAULT 0,
		videos        BIGINT NOT NULL DEFAULT 0,
		last_updated  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS channel_snapshots (
		id            BIGSERIAL PRIMARY KEY,
		channel_id    VARCHAR(32) NOT NULL,
		snapshot_date DATE NOT NULL,
		subscribers   BIGINT NOT NULL DEFAULT 0,
		views         BIGINT NOT NULL DEFAULT 0,
		videos        BIGINT NOT NULL DEFAULT 0,
		origin        VARCHAR(16) NOT NULL DEFAULT 'observed'
		              CHECK (origin IN ('observed', 'synthetic')),
		captured_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT channel_snapshots_channel_date_key UNIQUE (channel_id, snapshot_date)
	)`,
	`CREATE INDEX IF NOT EXISTS channel_snapshots_channel_date_idx
		ON channel_snapshots (channel_id, snapshot_date DESC)`,
	`CREATE TABLE IF NOT EXISTS videos (
		video_id     VARCHAR(16) PRIMARY KEY,
		channel_id   VARCHAR(32) NOT NULL,
		title        TEXT,
		published_at TIMESTAMPTZ,
		views        BIGINT NOT NULL DEFAULT 0,
		likes        BIGINT NOT NULL DEFAULT 0,
		comments     BIGINT NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS videos_channel_published_idx
		ON videos (channel_id, published_at DESC)`,
}

// Migrate creates the tables used by the analytics pipeline.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
