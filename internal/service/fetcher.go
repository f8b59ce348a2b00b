package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/analytubeapp-coder/analytube/internal/model"
	"github.com/analytubeapp-coder/analytube/internal/youtube"
)

// searchResults is the number of candidates requested when searching for a
// channel by handle or name. Only the first is used.
const searchResults = 5

// StatsFetcher turns a resolved channel reference into a normalized channel
// record, trying lookup strategies until one returns an item.
type StatsFetcher struct {
	provider youtube.Provider
	logger   zerolog.Logger
	now      func() time.Time
}

func NewStatsFetcher(provider youtube.Provider, logger zerolog.Logger) *StatsFetcher {
	return &StatsFetcher{
		provider: provider,
		logger:   logger.With().Str("component", "stats-fetcher").Logger(),
		now:      time.Now,
	}
}

// Fetch looks the channel up according to the input kind:
//
//	channel_id: channels.list by ID
//	handle:     search by handle text, then channels.list by the first hit
//	query:      channels.list by legacy username, then search fallback
//
// Empty responses fall through to the next strategy; exhaustion yields
// ErrNotFound.
func (f *StatsFetcher) Fetch(ctx context.Context, in ResolvedInput) (*model.Channel, error) {
	switch in.Kind {
	case KindChannelID:
		return f.FetchByID(ctx, in.Token)

	case KindHandle:
		return f.searchThenLookup(ctx, strings.TrimPrefix(in.Token, youtube.HandleMarker))

	default:
		items, err := f.provider.ChannelsByUsername(ctx, in.Token)
		if err != nil {
			return nil, providerError("channels.list", err)
		}
		if ch := f.first(items); ch != nil {
			return ch, nil
		}
		f.logger.Debug().Str("query", in.Token).Msg("no legacy username match, searching")
		return f.searchThenLookup(ctx, in.Token)
	}
}

// FetchByID performs a single direct lookup by canonical channel ID.
func (f *StatsFetcher) FetchByID(ctx context.Context, channelID string) (*model.Channel, error) {
	items, err := f.provider.ChannelsByID(ctx, channelID)
	if err != nil {
		return nil, providerError("channels.list", err)
	}
	if ch := f.first(items); ch != nil {
		return ch, nil
	}
	return nil, ErrNotFound
}

func (f *StatsFetcher) searchThenLookup(ctx context.Context, query string) (*model.Channel, error) {
	results, err := f.provider.SearchChannels(ctx, query, searchResults)
	if err != nil {
		return nil, providerError("search.list", err)
	}
	id := youtube.FirstChannelID(results)
	if id == "" {
		return nil, ErrNotFound
	}
	return f.FetchByID(ctx, id)
}

func (f *StatsFetcher) first(items []*ytapi.Channel) *model.Channel {
	for _, item := range items {
		if item == nil || item.Id == "" {
			continue
		}
		ch := youtube.ChannelFromAPI(item, f.now().UTC())
		return &ch
	}
	return nil
}
