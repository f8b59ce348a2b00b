package model

// AnalyticsSummary holds a channel's current totals.
type AnalyticsSummary struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
}

// Growth holds signed deltas between the oldest and latest snapshot of the
// window, plus per-day averages over the number of loaded snapshots.
type Growth struct {
	SubscribersChange int64   `json:"subscribersChange"`
	ViewsChange       int64   `json:"viewsChange"`
	VideosChange      int64   `json:"videosChange"`
	AvgSubsPerDay     float64 `json:"avgSubsPerDay"`
	AvgViewsPerDay    float64 `json:"avgViewsPerDay"`
	AvgVideosPerDay   float64 `json:"avgVideosPerDay"`
	DailyAvgSubs      int64   `json:"dailyAvgSubs"`
	DailyAvgViews     int64   `json:"dailyAvgViews"`
	Days              int     `json:"days"`
}

// HistoryPoint is a single charted day.
type HistoryPoint struct {
	Date        string         `json:"date"`
	Subscribers int64          `json:"subscribers"`
	Views       int64          `json:"views"`
	Videos      int64          `json:"videos"`
	Origin      SnapshotOrigin `json:"origin"`
}

// AnalyticsResponse is the API response for 30-day growth. When fewer than
// two snapshots exist, Warning is set and Growth is nil.
type AnalyticsResponse struct {
	ChannelID      string            `json:"channelId"`
	Warning        string            `json:"warning,omitempty"`
	Summary        *AnalyticsSummary `json:"summary,omitempty"`
	Growth         *Growth           `json:"growth,omitempty"`
	TopVideos      []Video           `json:"topVideos,omitempty"`
	History        []HistoryPoint    `json:"history,omitempty"`
	ObservedCount  int               `json:"observedCount"`
	SyntheticCount int               `json:"syntheticCount"`
	Backfilled     int               `json:"backfilled"`
}

// EarningsResponse is the API response for a CPM-based earnings estimate.
type EarningsResponse struct {
	ChannelID         string  `json:"channelId"`
	CPM               float64 `json:"cpm"`
	ViewsChange       int64   `json:"viewsChange"`
	Days              int     `json:"days"`
	EstimatedEarnings float64 `json:"estimatedEarnings"`
	EstimatedPerDay   float64 `json:"estimatedPerDay"`
	Approximate       bool    `json:"approximate"`
}

// BatchResult summarizes one batch snapshot run.
type BatchResult struct {
	RunID      string            `json:"runId"`
	Total      int               `json:"total"`
	Created    int               `json:"created"`
	Existing   int               `json:"existing"`
	Failed     int               `json:"failed"`
	Errors     map[string]string `json:"errors,omitempty"`
	StartedAt  string            `json:"startedAt"`
	DurationMs int64             `json:"durationMs"`
}
