package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// Upsert inserts or refreshes a channel's live metadata, keyed by channel_id.
func (r *ChannelRepo) Upsert(ctx context.Context, ch *model.Channel) error {
	query := `
		INSERT INTO channels (channel_id, title, description, thumbnail_url, country,
		                      subscribers, views, videos, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (channel_id) DO UPDATE
		SET title = EXCLUDED.title,
		    description = EXCLUDED.description,
		    thumbnail_url = EXCLUDED.thumbnail_url,
		    country = EXCLUDED.country,
		    subscribers = EXCLUDED.subscribers,
		    views = EXCLUDED.views,
		    videos = EXCLUDED.videos,
		    last_updated = EXCLUDED.last_updated`

	_, err := r.pool.Exec(ctx, query,
		ch.ChannelID, ch.Title, ch.Description, ch.ThumbnailURL, ch.Country,
		ch.Subscribers, ch.Views, ch.Videos, ch.LastUpdated,
	)
	return err
}

// FindByChannelID returns a single channel by its ID.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, channelID string) (*model.Channel, error) {
	query := `
		SELECT channel_id, COALESCE(title, ''), COALESCE(description, ''),
		       COALESCE(thumbnail_url, ''), COALESCE(country, ''),
		       subscribers, views, videos, last_updated
		FROM channels
		WHERE channel_id = $1`

	var ch model.Channel
	err := r.pool.QueryRow(ctx, query, channelID).Scan(
		&ch.ChannelID, &ch.Title, &ch.Description, &ch.ThumbnailURL, &ch.Country,
		&ch.Subscribers, &ch.Views, &ch.Videos, &ch.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// ListChannelIDs returns every tracked channel ID, oldest refresh first so a
// run interrupted by quota exhaustion resumes with the stalest channels.
func (r *ChannelRepo) ListChannelIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT channel_id FROM channels ORDER BY last_updated ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
