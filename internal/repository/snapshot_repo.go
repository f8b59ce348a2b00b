package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// ErrSnapshotExists is returned when a snapshot for the same (channel, day)
// is already stored. Callers treat it as a successful no-op.
var ErrSnapshotExists = errors.New("snapshot already exists for this day")

type SnapshotRepo struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepo(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Insert appends a dated snapshot. A duplicate (channel_id, snapshot_date)
// yields ErrSnapshotExists and leaves the stored row untouched, with one
// exception: an observed snapshot replaces a synthetic placeholder for the
// same day.
func (r *SnapshotRepo) Insert(ctx context.Context, s model.Snapshot) error {
	query := `
		INSERT INTO channel_snapshots (channel_id, snapshot_date, subscribers, views, videos, origin, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	day := model.Day(s.Date)
	_, err := r.pool.Exec(ctx, query,
		s.ChannelID, day, s.Subscribers, s.Views, s.Videos, string(s.Origin), s.CapturedAt,
	)
	if !IsUniqueViolation(err) {
		return err
	}
	if s.Origin != model.OriginObserved {
		return ErrSnapshotExists
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE channel_snapshots
		SET subscribers = $3, views = $4, videos = $5, origin = 'observed', captured_at = $6
		WHERE channel_id = $1 AND snapshot_date = $2 AND origin = 'synthetic'`,
		s.ChannelID, day, s.Subscribers, s.Views, s.Videos, s.CapturedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotExists
	}
	return nil
}

// Recent returns up to limit snapshots for a channel, newest day first.
func (r *SnapshotRepo) Recent(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error) {
	query := `
		SELECT channel_id, snapshot_date, subscribers, views, videos, origin, captured_at
		FROM channel_snapshots
		WHERE channel_id = $1
		ORDER BY snapshot_date DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []model.Snapshot
	for rows.Next() {
		var s model.Snapshot
		var origin string
		if err := rows.Scan(&s.ChannelID, &s.Date, &s.Subscribers, &s.Views, &s.Videos, &origin, &s.CapturedAt); err != nil {
			return nil, err
		}
		s.Origin = model.SnapshotOrigin(origin)
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
