package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/analytubeapp-coder/analytube/internal/metrics"
	"github.com/analytubeapp-coder/analytube/internal/model"
	"github.com/analytubeapp-coder/analytube/internal/repository"
)

// SnapshotService records at most one snapshot per channel per calendar day.
type SnapshotService struct {
	fetcher   *StatsFetcher
	channels  ChannelStore
	snapshots SnapshotStore
	cache     *CacheService
	logger    zerolog.Logger
	now       func() time.Time
}

func NewSnapshotService(fetcher *StatsFetcher, channels ChannelStore, snapshots SnapshotStore, cache *CacheService, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		fetcher:   fetcher,
		channels:  channels,
		snapshots: snapshots,
		cache:     cache,
		logger:    logger.With().Str("component", "snapshot").Logger(),
		now:       time.Now,
	}
}

// Capture fetches live statistics for a canonical channel ID and records
// today's snapshot.
func (s *SnapshotService) Capture(ctx context.Context, channelID string) (*model.SnapshotResponse, error) {
	ch, err := s.fetcher.FetchByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.RecordSnapshot(ctx, ch)
}

// RecordSnapshot upserts the channel's live metadata and appends today's
// snapshot. A snapshot already stored for today is reported with
// Created=false and no error.
func (s *SnapshotService) RecordSnapshot(ctx context.Context, ch *model.Channel) (*model.SnapshotResponse, error) {
	if ch == nil || ch.ChannelID == "" {
		return nil, validationError("channelId is required")
	}

	now := s.now().UTC()
	if ch.LastUpdated.IsZero() {
		ch.LastUpdated = now
	}
	if err := s.channels.Upsert(ctx, ch); err != nil {
		return nil, storageError("upsert channel", err)
	}

	snap := model.Snapshot{
		ChannelID:   ch.ChannelID,
		Date:        model.Day(now),
		Subscribers: ch.Subscribers,
		Views:       ch.Views,
		Videos:      ch.Videos,
		Origin:      model.OriginObserved,
		CapturedAt:  now,
	}
	created, err := s.Store(ctx, snap)
	if err != nil {
		return nil, err
	}

	resp := &model.SnapshotResponse{
		Success:     true,
		Created:     created,
		ChannelID:   ch.ChannelID,
		SnapshotDay: snap.DateString(),
	}
	if !created {
		resp.Message = "snapshot exists"
	}
	return resp, nil
}

// Store inserts a snapshot through the idempotent path shared by observed and
// synthetic rows. It reports whether a new row was written.
func (s *SnapshotService) Store(ctx context.Context, snap model.Snapshot) (bool, error) {
	if snap.Origin == "" {
		snap.Origin = model.OriginObserved
	}
	if snap.CapturedAt.IsZero() {
		snap.CapturedAt = s.now().UTC()
	}

	err := s.snapshots.Insert(ctx, snap)
	switch {
	case err == nil:
		metrics.SnapshotsTotal.WithLabelValues(string(snap.Origin), "created").Inc()
		s.cache.InvalidateAnalytics(ctx, snap.ChannelID)
		return true, nil
	case errors.Is(err, repository.ErrSnapshotExists):
		metrics.SnapshotsTotal.WithLabelValues(string(snap.Origin), "existing").Inc()
		s.logger.Debug().
			Str("channel_id", snap.ChannelID).
			Str("date", snap.DateString()).
			Msg("snapshot already stored for day")
		return false, nil
	default:
		metrics.SnapshotsTotal.WithLabelValues(string(snap.Origin), "error").Inc()
		return false, storageError("insert snapshot", err)
	}
}

// Latest returns the channel's most recent snapshot, or nil if none exist.
func (s *SnapshotService) Latest(ctx context.Context, channelID string) (*model.Snapshot, error) {
	snaps, err := s.snapshots.Recent(ctx, channelID, 1)
	if err != nil {
		return nil, storageError("load snapshots", err)
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}
