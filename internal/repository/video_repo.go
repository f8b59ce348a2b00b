package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

// UpsertMany refreshes the given videos in a single round trip.
func (r *VideoRepo) UpsertMany(ctx context.Context, videos []model.Video) error {
	if len(videos) == 0 {
		return nil
	}

	query := `
		INSERT INTO videos (video_id, channel_id, title, published_at, views, likes, comments, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (video_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    title = EXCLUDED.title,
		    published_at = EXCLUDED.published_at,
		    views = EXCLUDED.views,
		    likes = EXCLUDED.likes,
		    comments = EXCLUDED.comments,
		    last_updated = NOW()`

	batch := &pgx.Batch{}
	for _, v := range videos {
		batch.Queue(query, v.VideoID, v.ChannelID, v.Title, nullableTime(v), v.Views, v.Likes, v.Comments)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range videos {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// RecentByChannel returns the channel's most recently published stored videos.
func (r *VideoRepo) RecentByChannel(ctx context.Context, channelID string, limit int) ([]model.Video, error) {
	query := `
		SELECT video_id, channel_id, COALESCE(title, ''), COALESCE(published_at, 'epoch'::timestamptz),
		       views, likes, comments
		FROM videos
		WHERE channel_id = $1
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		var v model.Video
		err := rows.Scan(&v.VideoID, &v.ChannelID, &v.Title, &v.PublishedAt, &v.Views, &v.Likes, &v.Comments)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func nullableTime(v model.Video) any {
	if v.PublishedAt.IsZero() {
		return nil
	}
	return v.PublishedAt
}
