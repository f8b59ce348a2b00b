package model

import "time"

// Channel is the live metadata of a YouTube channel, upserted on every fetch.
type Channel struct {
	ChannelID    string    `json:"channel_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Country      string    `json:"country"`
	Subscribers  int64     `json:"subscribers"`
	Views        int64     `json:"views"`
	Videos       int64     `json:"videos"`
	LastUpdated  time.Time `json:"last_updated"`
}

// ChannelResponse is the API response after resolving and upserting a channel.
type ChannelResponse struct {
	Success bool     `json:"success"`
	Channel *Channel `json:"channel"`
}

// ChannelDetailResponse is the API response for a stored channel lookup.
type ChannelDetailResponse struct {
	Channel        *Channel  `json:"channel"`
	LatestSnapshot *Snapshot `json:"latest_snapshot,omitempty"`
}
