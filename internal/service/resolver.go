package service

import (
	"net/url"
	"strings"

	"github.com/analytubeapp-coder/analytube/internal/youtube"
)

// InputKind classifies a resolved channel reference.
type InputKind string

const (
	KindChannelID InputKind = "channel_id"
	KindHandle    InputKind = "handle"
	KindQuery     InputKind = "query"
)

// ResolvedInput is a channel reference ready for the stats fetcher.
type ResolvedInput struct {
	Token string
	Kind  InputKind
}

// ResolveChannelInput normalizes free-form user input into a channel ID, a
// handle or a search query. It never calls the provider. The first matching
// rule wins:
//
//	UCxxxx                              -> channel ID as-is
//	https://youtube.com/channel/UCxxxx  -> UCxxxx
//	https://youtube.com/@name           -> @name
//	@name                               -> @name
//	anything else                       -> search query
func ResolveChannelInput(input string) (ResolvedInput, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return ResolvedInput{}, validationError("channel is required")
	}

	if strings.HasPrefix(input, youtube.ChannelIDPrefix) {
		return ResolvedInput{Token: input, Kind: KindChannelID}, nil
	}

	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.Host != "" {
		if id, ok := strings.CutPrefix(u.Path, "/channel/"); ok {
			if id = firstSegment(id); id != "" {
				return ResolvedInput{Token: id, Kind: KindChannelID}, nil
			}
		}
		if strings.HasPrefix(u.Path, "/"+youtube.HandleMarker) {
			if handle := firstSegment(u.Path[1:]); len(handle) > len(youtube.HandleMarker) {
				return ResolvedInput{Token: handle, Kind: KindHandle}, nil
			}
		}
	}

	if strings.HasPrefix(input, youtube.HandleMarker) {
		return ResolvedInput{Token: input, Kind: KindHandle}, nil
	}

	return ResolvedInput{Token: input, Kind: KindQuery}, nil
}

func firstSegment(path string) string {
	seg, _, _ := strings.Cut(path, "/")
	return seg
}
