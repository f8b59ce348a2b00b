package service

import (
	"context"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

// ChannelStore persists channel metadata. Implemented by repository.ChannelRepo.
type ChannelStore interface {
	Upsert(ctx context.Context, ch *model.Channel) error
	FindByChannelID(ctx context.Context, channelID string) (*model.Channel, error)
	ListChannelIDs(ctx context.Context) ([]string, error)
}

// SnapshotStore persists the daily snapshot series. Insert must return
// repository.ErrSnapshotExists for a duplicate (channel, day).
type SnapshotStore interface {
	Insert(ctx context.Context, s model.Snapshot) error
	Recent(ctx context.Context, channelID string, limit int) ([]model.Snapshot, error)
}

// VideoStore persists channel uploads.
type VideoStore interface {
	UpsertMany(ctx context.Context, videos []model.Video) error
	RecentByChannel(ctx context.Context, channelID string, limit int) ([]model.Video, error)
}
