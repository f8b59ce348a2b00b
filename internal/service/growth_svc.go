package service

import (
	"context"
	"errors"
	"math"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

const (
	// GrowthWindow is the number of daily snapshots analyzed.
	GrowthWindow = 30
	// MinSnapshots is the least history that yields a growth object.
	MinSnapshots = 2

	backfillSubsPerDay  = 500
	backfillViewsPerDay = 1_000_000

	topVideosPool  = 20
	topVideosCount = 5
)

// ComputeGrowth derives deltas and per-day averages from snapshots ordered
// newest first. Fewer than MinSnapshots yields ErrInsufficientData.
func ComputeGrowth(snapshots []model.Snapshot) (*model.Growth, error) {
	if len(snapshots) < MinSnapshots {
		return nil, ErrInsufficientData
	}

	latest := snapshots[0]
	oldest := snapshots[len(snapshots)-1]
	days := float64(len(snapshots))

	g := &model.Growth{
		SubscribersChange: latest.Subscribers - oldest.Subscribers,
		ViewsChange:       latest.Views - oldest.Views,
		VideosChange:      latest.Videos - oldest.Videos,
		Days:              len(snapshots),
	}
	g.AvgSubsPerDay = float64(g.SubscribersChange) / days
	g.AvgViewsPerDay = float64(g.ViewsChange) / days
	g.AvgVideosPerDay = float64(g.VideosChange) / days
	g.DailyAvgSubs = int64(math.Round(g.AvgSubsPerDay))
	g.DailyAvgViews = int64(math.Round(g.AvgViewsPerDay))
	return g, nil
}

// Backfill returns a synthetic snapshot for every day in the window ending at
// today that has no entry in existing. Counts are derived from base with a
// fixed linear decay per day offset from today, floored at zero.
func Backfill(base model.Snapshot, existing []model.Snapshot, today time.Time, window int) []model.Snapshot {
	today = model.Day(today)

	have := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		have[s.DateString()] = struct{}{}
	}

	var out []model.Snapshot
	for i := range window {
		day := today.AddDate(0, 0, -i)
		if _, ok := have[day.Format(model.DateLayout)]; ok {
			continue
		}
		offset := int64(i)
		out = append(out, model.Snapshot{
			ChannelID:   base.ChannelID,
			Date:        day,
			Subscribers: max(base.Subscribers-backfillSubsPerDay*offset, 0),
			Views:       max(base.Views-backfillViewsPerDay*offset, 0),
			Videos:      max(base.Videos-offset/2, 0),
			Origin:      model.OriginSynthetic,
		})
	}
	return out
}

// GrowthService assembles the 30-day analytics view for a channel.
type GrowthService struct {
	snapshots SnapshotStore
	channels  ChannelStore
	videos    VideoStore
	recorder  *SnapshotService
	cache     *CacheService
	backfill  bool
	logger    zerolog.Logger
	now       func() time.Time
}

func NewGrowthService(snapshots SnapshotStore, channels ChannelStore, videos VideoStore, recorder *SnapshotService, cache *CacheService, backfill bool, logger zerolog.Logger) *GrowthService {
	return &GrowthService{
		snapshots: snapshots,
		channels:  channels,
		videos:    videos,
		recorder:  recorder,
		cache:     cache,
		backfill:  backfill,
		logger:    logger.With().Str("component", "growth").Logger(),
		now:       time.Now,
	}
}

// Analytics returns current totals, window growth, top videos and the charted
// history. When backfill is enabled and the window is short, missing days are
// filled with synthetic rows first; a channel with no history at all gets
// today's observed snapshot captured from the provider as the base.
func (g *GrowthService) Analytics(ctx context.Context, channelID string) (*model.AnalyticsResponse, error) {
	if channelID == "" {
		return nil, validationError("channelId is required")
	}
	if cached, ok := g.cache.Analytics(ctx, channelID); ok {
		return cached, nil
	}

	snaps, err := g.loadWindow(ctx, channelID)
	if err != nil {
		return nil, err
	}

	backfilled := 0
	if g.backfill && len(snaps) < GrowthWindow {
		backfilled, snaps, err = g.fill(ctx, channelID, snaps)
		if err != nil {
			return nil, err
		}
	}

	resp := &model.AnalyticsResponse{
		ChannelID:  channelID,
		Backfilled: backfilled,
		History:    history(snaps),
	}
	for _, s := range snaps {
		if s.Origin == model.OriginSynthetic {
			resp.SyntheticCount++
		} else {
			resp.ObservedCount++
		}
	}

	growth, err := ComputeGrowth(snaps)
	if errors.Is(err, ErrInsufficientData) {
		resp.Warning = err.Error()
		return resp, nil
	}
	resp.Growth = growth

	summary, err := g.summary(ctx, channelID, snaps[0])
	if err != nil {
		return nil, err
	}
	resp.Summary = summary

	top, err := g.topVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}
	resp.TopVideos = top

	g.cache.StoreAnalytics(ctx, channelID, resp)
	return resp, nil
}

// Earnings estimates revenue from the window's view growth at the given CPM.
func (g *GrowthService) Earnings(ctx context.Context, channelID string, cpm float64) (*model.EarningsResponse, error) {
	if cpm < 0 || math.IsNaN(cpm) || math.IsInf(cpm, 0) {
		return nil, validationError("cpm must be a non-negative number")
	}

	a, err := g.Analytics(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if a.Growth == nil {
		return nil, ErrInsufficientData
	}

	return &model.EarningsResponse{
		ChannelID:         channelID,
		CPM:               cpm,
		ViewsChange:       a.Growth.ViewsChange,
		Days:              a.Growth.Days,
		EstimatedEarnings: float64(a.Growth.ViewsChange) / 1000 * cpm,
		EstimatedPerDay:   a.Growth.AvgViewsPerDay / 1000 * cpm,
		Approximate:       a.SyntheticCount > 0,
	}, nil
}

func (g *GrowthService) loadWindow(ctx context.Context, channelID string) ([]model.Snapshot, error) {
	snaps, err := g.snapshots.Recent(ctx, channelID, GrowthWindow)
	if err != nil {
		return nil, storageError("load snapshots", err)
	}
	return snaps, nil
}

func (g *GrowthService) fill(ctx context.Context, channelID string, snaps []model.Snapshot) (int, []model.Snapshot, error) {
	if len(snaps) == 0 {
		if _, err := g.recorder.Capture(ctx, channelID); err != nil {
			return 0, nil, err
		}
		var err error
		if snaps, err = g.loadWindow(ctx, channelID); err != nil {
			return 0, nil, err
		}
		if len(snaps) == 0 {
			return 0, snaps, nil
		}
	}

	rows := Backfill(snaps[0], snaps, g.now(), GrowthWindow)
	inserted := 0
	for _, row := range rows {
		created, err := g.recorder.Store(ctx, row)
		if err != nil {
			return inserted, nil, err
		}
		if created {
			inserted++
		}
	}

	if inserted > 0 {
		g.logger.Info().
			Str("channel_id", channelID).
			Int("observed", len(snaps)).
			Int("synthetic", inserted).
			Msg("backfilled snapshot window")
	}

	reloaded, err := g.loadWindow(ctx, channelID)
	return inserted, reloaded, err
}

func (g *GrowthService) summary(ctx context.Context, channelID string, latest model.Snapshot) (*model.AnalyticsSummary, error) {
	ch, err := g.channels.FindByChannelID(ctx, channelID)
	switch {
	case err == nil:
		return &model.AnalyticsSummary{
			TotalVideos:      ch.Videos,
			TotalViews:       ch.Views,
			TotalSubscribers: ch.Subscribers,
		}, nil
	case errors.Is(err, pgx.ErrNoRows):
		return &model.AnalyticsSummary{
			TotalVideos:      latest.Videos,
			TotalViews:       latest.Views,
			TotalSubscribers: latest.Subscribers,
		}, nil
	default:
		return nil, storageError("load channel", err)
	}
}

func (g *GrowthService) topVideos(ctx context.Context, channelID string) ([]model.Video, error) {
	videos, err := g.videos.RecentByChannel(ctx, channelID, topVideosPool)
	if err != nil {
		return nil, storageError("load videos", err)
	}
	return RankByViews(videos, topVideosCount), nil
}

// RankByViews returns up to n videos sorted by views, highest first. The input
// slice is not modified.
func RankByViews(videos []model.Video, n int) []model.Video {
	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(a, b model.Video) int {
		switch {
		case a.Views > b.Views:
			return -1
		case a.Views < b.Views:
			return 1
		}
		return 0
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []model.Video{}
	}
	return sorted
}

// history orders the window oldest first for charting.
func history(snaps []model.Snapshot) []model.HistoryPoint {
	points := make([]model.HistoryPoint, 0, len(snaps))
	for i := len(snaps) - 1; i >= 0; i-- {
		s := snaps[i]
		points = append(points, model.HistoryPoint{
			Date:        s.DateString(),
			Subscribers: s.Subscribers,
			Views:       s.Views,
			Videos:      s.Videos,
			Origin:      s.Origin,
		})
	}
	return points
}
