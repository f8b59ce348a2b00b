package model

import "time"

// SnapshotOrigin records whether a snapshot was observed from the provider or
// synthesized to fill the analysis window.
type SnapshotOrigin string

const (
	OriginObserved  SnapshotOrigin = "observed"
	OriginSynthetic SnapshotOrigin = "synthetic"
)

// DateLayout is the calendar-day format used for snapshot dates.
const DateLayout = "2006-01-02"

// Snapshot is one dated observation of a channel's aggregate statistics.
// (ChannelID, Date) is unique; rows are append-only.
type Snapshot struct {
	ChannelID   string         `json:"channel_id"`
	Date        time.Time      `json:"snapshot_date"`
	Subscribers int64          `json:"subscribers"`
	Views       int64          `json:"views"`
	Videos      int64          `json:"videos"`
	Origin      SnapshotOrigin `json:"origin"`
	CapturedAt  time.Time      `json:"captured_at"`
}

// DateString returns the snapshot's calendar day as YYYY-MM-DD.
func (s Snapshot) DateString() string {
	return s.Date.Format(DateLayout)
}

// SnapshotResponse is the API response after recording a daily snapshot.
type SnapshotResponse struct {
	Success     bool   `json:"success"`
	Created     bool   `json:"created"`
	Message     string `json:"message,omitempty"`
	ChannelID   string `json:"channel_id"`
	SnapshotDay string `json:"snapshot_date"`
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SnapshotRequest is the body of POST /api/youtube/snapshot.
type SnapshotRequest struct {
	ChannelID string `json:"channelId"`
}
