package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

// ChannelService resolves free-form channel references and keeps the stored
// channel metadata fresh.
type ChannelService struct {
	fetcher  *StatsFetcher
	channels ChannelStore
	recorder *SnapshotService
	cache    *CacheService
	logger   zerolog.Logger
}

func NewChannelService(fetcher *StatsFetcher, channels ChannelStore, recorder *SnapshotService, cache *CacheService, logger zerolog.Logger) *ChannelService {
	return &ChannelService{
		fetcher:  fetcher,
		channels: channels,
		recorder: recorder,
		cache:    cache,
		logger:   logger.With().Str("component", "channel").Logger(),
	}
}

// Resolve turns user input into a live channel record and upserts it.
// Handles and search queries that resolved before skip straight to a direct
// lookup.
func (s *ChannelService) Resolve(ctx context.Context, input string) (*model.Channel, error) {
	in, err := ResolveChannelInput(input)
	if err != nil {
		return nil, err
	}

	lookup := in
	if in.Kind != KindChannelID {
		if id, ok := s.cache.ResolvedChannelID(ctx, in.Token); ok {
			lookup = ResolvedInput{Token: id, Kind: KindChannelID}
		}
	}

	ch, err := s.fetcher.Fetch(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if in.Kind != KindChannelID {
		s.cache.StoreResolved(ctx, in.Token, ch.ChannelID)
	}

	if err := s.channels.Upsert(ctx, ch); err != nil {
		return nil, storageError("upsert channel", err)
	}
	s.logger.Debug().Str("input_kind", string(in.Kind)).Str("channel_id", ch.ChannelID).Msg("channel resolved")
	return ch, nil
}

// ResolveID returns the canonical channel ID for input, calling the provider
// only when input is not already canonical.
func (s *ChannelService) ResolveID(ctx context.Context, input string) (string, error) {
	in, err := ResolveChannelInput(input)
	if err != nil {
		return "", err
	}
	if in.Kind == KindChannelID {
		return in.Token, nil
	}
	ch, err := s.Resolve(ctx, input)
	if err != nil {
		return "", err
	}
	return ch.ChannelID, nil
}

// Lookup returns a stored channel with its most recent snapshot.
func (s *ChannelService) Lookup(ctx context.Context, channelID string) (*model.ChannelDetailResponse, error) {
	ch, err := s.channels.FindByChannelID(ctx, channelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storageError("load channel", err)
	}

	latest, err := s.recorder.Latest(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &model.ChannelDetailResponse{Channel: ch, LatestSnapshot: latest}, nil
}
