package youtube

import (
	"math"
	"time"

	ytapi "google.golang.org/api/youtube/v3"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

// Count converts an API counter to int64, clamping values that do not fit.
func Count(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// ChannelFromAPI maps a channels.list item. Missing parts yield zero values.
func ChannelFromAPI(item *ytapi.Channel, now time.Time) model.Channel {
	ch := model.Channel{LastUpdated: now}
	if item == nil {
		return ch
	}
	ch.ChannelID = item.Id

	if sn := item.Snippet; sn != nil {
		ch.Title = sn.Title
		ch.Description = sn.Description
		ch.Country = sn.Country
		ch.ThumbnailURL = thumbnailURL(sn.Thumbnails)
	}
	if st := item.Statistics; st != nil {
		ch.Subscribers = Count(st.SubscriberCount)
		ch.Views = Count(st.ViewCount)
		ch.Videos = Count(st.VideoCount)
	}
	return ch
}

// VideoFromAPI maps a videos.list item. channelID is used when the snippet
// omits it.
func VideoFromAPI(item *ytapi.Video, channelID string) model.Video {
	v := model.Video{ChannelID: channelID}
	if item == nil {
		return v
	}
	v.VideoID = item.Id

	if sn := item.Snippet; sn != nil {
		if sn.ChannelId != "" {
			v.ChannelID = sn.ChannelId
		}
		v.Title = sn.Title
		if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			v.PublishedAt = t.UTC()
		}
	}
	if st := item.Statistics; st != nil {
		v.Views = Count(st.ViewCount)
		v.Likes = Count(st.LikeCount)
		v.Comments = Count(st.CommentCount)
	}
	return v
}

// FirstChannelID returns the channel ID of the first search result carrying one.
func FirstChannelID(results []*ytapi.SearchResult) string {
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Snippet != nil && r.Snippet.ChannelId != "" {
			return r.Snippet.ChannelId
		}
		if r.Id != nil && r.Id.ChannelId != "" {
			return r.Id.ChannelId
		}
	}
	return ""
}

// VideoIDs extracts video IDs from a search page, skipping non-video results.
func VideoIDs(results []*ytapi.SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r != nil && r.Id != nil && r.Id.VideoId != "" {
			ids = append(ids, r.Id.VideoId)
		}
	}
	return ids
}

// thumbnailURL prefers the high resolution thumbnail, then the default one.
func thumbnailURL(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil && t.High.Url != "" {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}
