package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/analytubeapp-coder/analytube/internal/model"
	"github.com/analytubeapp-coder/analytube/internal/youtube"
)

const (
	DefaultVideoWindowDays = 30
	DefaultVideoCap        = 500
)

// VideoRanker refreshes a channel's recent uploads and ranks them by views.
type VideoRanker struct {
	provider youtube.Provider
	videos   VideoStore
	logger   zerolog.Logger
	now      func() time.Time
}

func NewVideoRanker(provider youtube.Provider, videos VideoStore, logger zerolog.Logger) *VideoRanker {
	return &VideoRanker{
		provider: provider,
		videos:   videos,
		logger:   logger.With().Str("component", "video-ranker").Logger(),
		now:      time.Now,
	}
}

// TopVideos collects up to limit uploads published in the last windowDays,
// fetches their statistics in batches, upserts them and returns the full set
// plus the top five by views. A failed statistics batch is skipped.
func (r *VideoRanker) TopVideos(ctx context.Context, channelID string, windowDays, limit int) (*model.VideosResponse, error) {
	if channelID == "" {
		return nil, validationError("channelId is required")
	}
	if windowDays <= 0 {
		windowDays = DefaultVideoWindowDays
	}
	if limit <= 0 {
		limit = DefaultVideoCap
	}

	ids, err := r.collectIDs(ctx, channelID, r.now().AddDate(0, 0, -windowDays), limit)
	if err != nil {
		return nil, err
	}

	videos, err := r.fetchStats(ctx, channelID, ids)
	if err != nil {
		return nil, err
	}

	if err := r.videos.UpsertMany(ctx, videos); err != nil {
		return nil, storageError("upsert videos", err)
	}

	return &model.VideosResponse{
		ChannelID: channelID,
		Summary:   model.VideosSummary{TotalVideos: len(videos)},
		Videos:    videos,
		TopVideos: RankByViews(videos, topVideosCount),
	}, nil
}

// collectIDs pages through search results until pagination ends or limit is
// reached. A page failure after some IDs were collected ends paging early.
func (r *VideoRanker) collectIDs(ctx context.Context, channelID string, after time.Time, limit int) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	pageToken := ""

	for len(ids) < limit {
		resp, err := r.provider.SearchVideos(ctx, youtube.VideoSearch{
			ChannelID:      channelID,
			PublishedAfter: after,
			PageToken:      pageToken,
			MaxResults:     int64(min(youtube.MaxBatchSize, limit-len(ids))),
		})
		if err != nil {
			if len(ids) == 0 {
				return nil, providerError("search.list", err)
			}
			r.logger.Warn().Err(err).Str("channel_id", channelID).Int("collected", len(ids)).
				Msg("search page failed, keeping collected ids")
			break
		}

		for _, id := range youtube.VideoIDs(resp.Items) {
			if _, dup := seen[id]; dup || len(ids) >= limit {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return ids, nil
}

func (r *VideoRanker) fetchStats(ctx context.Context, channelID string, ids []string) ([]model.Video, error) {
	videos := make([]model.Video, 0, len(ids))
	failed := 0

	for start := 0; start < len(ids); start += youtube.MaxBatchSize {
		end := min(start+youtube.MaxBatchSize, len(ids))
		items, err := r.provider.VideosByID(ctx, ids[start:end])
		if err != nil {
			failed++
			r.logger.Warn().Err(err).Str("channel_id", channelID).Int("batch_start", start).
				Msg("video statistics batch failed, skipping")
			continue
		}
		for _, item := range items {
			if item == nil || item.Id == "" {
				continue
			}
			videos = append(videos, youtube.VideoFromAPI(item, channelID))
		}
	}

	if len(videos) == 0 && failed > 0 {
		return nil, providerError("videos.list", errAllBatchesFailed)
	}
	return videos, nil
}
