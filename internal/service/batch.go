package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/analytubeapp-coder/analytube/internal/metrics"
	"github.com/analytubeapp-coder/analytube/internal/model"
)

// ErrBatchRunning is returned when a batch run is requested while one is
// already in progress.
var ErrBatchRunning = errors.New("batch snapshot run already in progress")

// BatchSnapshotter records today's snapshot for every tracked channel.
type BatchSnapshotter struct {
	channels ChannelStore
	recorder *SnapshotService
	limiter  *rate.Limiter
	running  atomic.Bool
	logger   zerolog.Logger
	now      func() time.Time
}

// NewBatchSnapshotter paces channels at most one per pacing interval. A
// non-positive pacing disables pacing.
func NewBatchSnapshotter(channels ChannelStore, recorder *SnapshotService, pacing time.Duration, logger zerolog.Logger) *BatchSnapshotter {
	limit := rate.Inf
	if pacing > 0 {
		limit = rate.Every(pacing)
	}
	return &BatchSnapshotter{
		channels: channels,
		recorder: recorder,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With().Str("component", "batch-snapshotter").Logger(),
		now:      time.Now,
	}
}

// Run snapshots every tracked channel. Per-channel failures are recorded in
// the result and never stop the run; cancelling ctx does.
func (b *BatchSnapshotter) Run(ctx context.Context) (*model.BatchResult, error) {
	if !b.running.CompareAndSwap(false, true) {
		metrics.BatchRuns.WithLabelValues("skipped").Inc()
		return nil, ErrBatchRunning
	}
	defer b.running.Store(false)

	start := b.now()
	res := &model.BatchResult{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC().Format(time.RFC3339),
		Errors:    map[string]string{},
	}
	log := b.logger.With().Str("run_id", res.RunID).Logger()

	ids, err := b.channels.ListChannelIDs(ctx)
	if err != nil {
		metrics.BatchRuns.WithLabelValues("failed").Inc()
		return nil, storageError("list channels", err)
	}
	res.Total = len(ids)
	log.Info().Int("channels", res.Total).Msg("batch run started")

	var runErr error
	for _, id := range ids {
		if err := b.limiter.Wait(ctx); err != nil {
			runErr = err
			break
		}

		snap, err := b.recorder.Capture(ctx, id)
		if err != nil {
			res.Failed++
			res.Errors[id] = err.Error()
			log.Warn().Err(err).Str("channel_id", id).Msg("channel snapshot failed")
			continue
		}
		if snap.Created {
			res.Created++
		} else {
			res.Existing++
		}
	}

	elapsed := b.now().Sub(start)
	res.DurationMs = elapsed.Milliseconds()
	if len(res.Errors) == 0 {
		res.Errors = nil
	}

	outcome := "ok"
	switch {
	case runErr != nil || (res.Total > 0 && res.Failed == res.Total):
		outcome = "failed"
	case res.Failed > 0:
		outcome = "partial"
	}
	metrics.BatchRuns.WithLabelValues(outcome).Inc()
	metrics.BatchDuration.Observe(elapsed.Seconds())

	log.Info().
		Int("created", res.Created).
		Int("existing", res.Existing).
		Int("failed", res.Failed).
		Dur("duration_ms", elapsed).
		Msg("batch run finished")

	return res, runErr
}

// Schedule returns a cron scheduler (seconds field enabled) that runs the
// batch on spec. The caller starts and stops it. Each run is bounded by
// timeout when positive.
func (b *BatchSnapshotter) Schedule(ctx context.Context, spec string, timeout time.Duration) (*cron.Cron, error) {
	logger := cronLogger{b.logger}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(spec, func() {
		rctx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if _, err := b.Run(rctx); err != nil {
			b.logger.Error().Err(err).Msg("scheduled batch run error")
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	zl zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.zl.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.zl.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
