package model

import "time"

// Video is a channel upload with its engagement counters.
type Video struct {
	VideoID     string    `json:"video_id"`
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
}

// VideosSummary summarizes a recent-uploads refresh.
type VideosSummary struct {
	TotalVideos int `json:"totalVideos"`
}

// VideosResponse is the API response for a channel's recent uploads.
type VideosResponse struct {
	ChannelID string        `json:"channelId"`
	Summary   VideosSummary `json:"summary"`
	Videos    []Video       `json:"videos"`
	TopVideos []Video       `json:"topVideos"`
}
