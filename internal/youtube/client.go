package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/analytubeapp-coder/analytube/internal/retry"
)

// Observer receives one callback per API call, after retries.
type Observer func(method, outcome string, elapsed time.Duration)

// Options configures a Client.
type Options struct {
	APIKey string
	// Endpoint overrides the API base URL (tests, proxies).
	Endpoint string
	// HTTPClient replaces the default transport. When set, APIKey is not
	// applied and the client is expected to handle auth itself.
	HTTPClient *http.Client
	// RPS and Burst size the token bucket shared by every call.
	RPS   float64
	Burst int
	Retry retry.Policy

	Observer Observer
	Logger   zerolog.Logger
}

// Client is the Data API implementation of Provider. All calls share one
// rate limiter and retry transient failures.
type Client struct {
	svc      *ytapi.Service
	limiter  *rate.Limiter
	policy   retry.Policy
	observer Observer
	logger   zerolog.Logger
}

// NewClient builds a Client. It fails when neither an API key nor a custom
// HTTP client is supplied.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.HTTPClient != nil:
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	default:
		return nil, errors.New("youtube: API key is required")
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := ytapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		svc:      svc,
		limiter:  rate.NewLimiter(limit, burst),
		policy:   opts.Retry,
		observer: opts.Observer,
		logger:   opts.Logger.With().Str("component", "youtube-client").Logger(),
	}, nil
}

// ChannelsByID looks channels up by canonical ID.
func (c *Client) ChannelsByID(ctx context.Context, ids ...string) ([]*ytapi.Channel, error) {
	var resp *ytapi.ChannelListResponse
	err := c.do(ctx, "channels.list", func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Channels.List([]string{"snippet", "statistics"}).
			Id(ids...).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ChannelsByUsername looks a channel up by its legacy username.
func (c *Client) ChannelsByUsername(ctx context.Context, username string) ([]*ytapi.Channel, error) {
	var resp *ytapi.ChannelListResponse
	err := c.do(ctx, "channels.list", func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Channels.List([]string{"snippet", "statistics"}).
			ForUsername(username).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// SearchChannels runs a channel-typed search.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int64) ([]*ytapi.SearchResult, error) {
	var resp *ytapi.SearchListResponse
	err := c.do(ctx, "search.list", func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Search.List([]string{"snippet"}).
			Type("channel").
			Q(query).
			MaxResults(maxResults).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// SearchVideos returns one page of a channel's uploads, newest first.
func (c *Client) SearchVideos(ctx context.Context, q VideoSearch) (*ytapi.SearchListResponse, error) {
	maxResults := q.MaxResults
	if maxResults <= 0 || maxResults > MaxBatchSize {
		maxResults = MaxBatchSize
	}

	var resp *ytapi.SearchListResponse
	err := c.do(ctx, "search.list", func(ctx context.Context) error {
		call := c.svc.Search.List([]string{"id"}).
			ChannelId(q.ChannelID).
			Type("video").
			Order("date").
			MaxResults(maxResults)
		if !q.PublishedAfter.IsZero() {
			call = call.PublishedAfter(q.PublishedAfter.UTC().Format(time.RFC3339))
		}
		if q.PageToken != "" {
			call = call.PageToken(q.PageToken)
		}
		var err error
		resp, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// VideosByID fetches snippet and statistics for up to MaxBatchSize videos.
func (c *Client) VideosByID(ctx context.Context, ids []string) ([]*ytapi.Video, error) {
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("youtube: %d ids exceeds batch limit of %d", len(ids), MaxBatchSize)
	}

	var resp *ytapi.VideoListResponse
	err := c.do(ctx, "videos.list", func(ctx context.Context) error {
		var err error
		resp, err = c.svc.Videos.List([]string{"snippet", "statistics"}).
			Id(ids...).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// do waits for a rate-limit token before each attempt and retries transient
// failures according to the client's policy.
func (c *Client) do(ctx context.Context, method string, fn func(context.Context) error) error {
	start := time.Now()
	attempt := 0
	err := retry.Do(ctx, c.policy, IsRetryable, func(ctx context.Context) error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		err := fn(ctx)
		if err != nil {
			c.logger.Debug().Err(err).Str("method", method).Int("attempt", attempt).Msg("api call failed")
		}
		return err
	})

	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.logger.Warn().Err(err).Str("method", method).Int("attempts", attempt).Msg("api call gave up")
	}
	if c.observer != nil {
		c.observer(method, outcome, time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("youtube %s: %w", method, err)
	}
	return nil
}

// IsRetryable reports whether a Data API error is transient: rate limiting,
// server errors and network failures. Quota exhaustion and bad requests are
// permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return true
		}
		for _, item := range apiErr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
