// Package youtube wraps the YouTube Data API v3 behind a small provider
// interface and maps its responses into the service's records.
package youtube

import (
	"context"
	"time"

	ytapi "google.golang.org/api/youtube/v3"
)

const (
	// ChannelIDPrefix starts every canonical channel ID.
	ChannelIDPrefix = "UC"
	// HandleMarker starts every channel handle.
	HandleMarker = "@"
	// MaxBatchSize is the largest page or id batch the API accepts.
	MaxBatchSize = 50
)

// VideoSearch selects one page of a channel's uploads.
type VideoSearch struct {
	ChannelID      string
	PublishedAfter time.Time
	PageToken      string
	MaxResults     int64
}

// Provider is the subset of the Data API used by the analytics pipeline.
// Empty result slices are not errors.
type Provider interface {
	ChannelsByID(ctx context.Context, ids ...string) ([]*ytapi.Channel, error)
	ChannelsByUsername(ctx context.Context, username string) ([]*ytapi.Channel, error)
	SearchChannels(ctx context.Context, query string, maxResults int64) ([]*ytapi.SearchResult, error)
	SearchVideos(ctx context.Context, q VideoSearch) (*ytapi.SearchListResponse, error)
	VideosByID(ctx context.Context, ids []string) ([]*ytapi.Video, error)
}
