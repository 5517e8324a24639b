package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	derr "github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/errors"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/ports"
	"go.uber.org/zap"
)

const DefaultRetryDelay = 3 * time.Second

const (
	MessageStreamClosed = "Match update stream closed by server. Trying to reconnect..."

	ReasonEnd   = "end"
	ReasonError = "error"
)

// Watcher keeps one subscription to the match update stream open and
// mirrors everything it receives into the display. After the stream ends or
// fails it waits a fixed delay and subscribes again, forever.
type Watcher struct {
	log        *zap.Logger
	source     ports.UpdateSource
	display    ports.Display
	metrics    ports.WatchMetrics
	matchID    models.MatchID
	retryDelay time.Duration
	after      func(time.Duration) <-chan time.Time
}

func NewWatcher(log *zap.Logger, source ports.UpdateSource, display ports.Display, metrics ports.WatchMetrics, matchID models.MatchID, retryDelay time.Duration) *Watcher {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Watcher{
		log:        log,
		source:     source,
		display:    display,
		metrics:    metrics,
		matchID:    models.MatchID(strings.TrimSpace(string(matchID))),
		retryDelay: retryDelay,
		after:      time.After,
	}
}

// Run blocks until ctx is cancelled. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context) error {
	const op = "service.Watcher.Run"

	if w.matchID == "" {
		return fmt.Errorf("%s: %w", op, derr.ErrInvalidMatchID)
	}

	for attempt := 1; ; attempt++ {
		w.subscribe(ctx, attempt)
		if ctx.Err() != nil {
			return nil
		}

		w.log.Debug("resubscribe scheduled",
			zap.String("op", op),
			zap.String("match_id", string(w.matchID)),
			zap.Duration("delay", w.retryDelay),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-w.after(w.retryDelay):
		}
		w.metrics.Resubscribed()
	}
}

// subscribe owns exactly one subscription. The deferred cancel closes it
// before Run can start the next one.
func (w *Watcher) subscribe(ctx context.Context, attempt int) {
	const op = "service.Watcher.subscribe"

	logger := w.log.With(
		zap.String("op", op),
		zap.String("match_id", string(w.matchID)),
		zap.Int("attempt", attempt),
	)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("attempting to get match updates")

	stream, err := w.source.Open(subCtx, w.matchID)
	if err != nil {
		w.handleError(ctx, logger, err)
		return
	}

	w.metrics.SubscriptionActive(true)
	defer w.metrics.SubscriptionActive(false)

	for {
		update, err := stream.Recv()
		if err != nil {
			if errors.Is(err, derr.ErrStreamEnded) {
				w.handleEnd(logger)
				return
			}
			w.handleError(ctx, logger, err)
			return
		}

		switch {
		case update.Snapshot != nil:
			w.handleSnapshot(logger, *update.Snapshot)
		case update.Status != nil:
			w.handleStatus(logger, *update.Status)
		}
	}
}

func (w *Watcher) handleSnapshot(logger *zap.Logger, snapshot models.Snapshot) {
	logger.Debug("received match update",
		zap.String("status", snapshot.Status),
		zap.Int32("home_score", snapshot.HomeScore),
		zap.Int32("away_score", snapshot.AwayScore),
	)
	w.metrics.SnapshotReceived()
	w.display.ShowMatch(snapshot)
}

func (w *Watcher) handleStatus(logger *zap.Logger, report models.StatusReport) {
	w.metrics.StatusReported(report.Code)
	if report.OK() {
		logger.Debug("stream status ok")
		return
	}

	logger.Warn("stream status", zap.Uint32("code", uint32(report.Code)), zap.String("details", report.Details))
	w.display.ShowStatusError(StatusErrorMessage(report))
}

func (w *Watcher) handleEnd(logger *zap.Logger) {
	logger.Info("match update stream ended")
	w.metrics.StreamTerminated(ReasonEnd)
	w.display.ShowError(MessageStreamClosed)
}

func (w *Watcher) handleError(ctx context.Context, logger *zap.Logger, err error) {
	if ctx.Err() != nil {
		logger.Info("subscription cancelled")
		return
	}

	logger.Error("stream error", zap.Error(err))
	w.metrics.StreamTerminated(ReasonError)
	w.display.ShowError(StreamErrorMessage(err))
}

func StatusErrorMessage(report models.StatusReport) string {
	return fmt.Sprintf("Stream error: %s (Code: %d)", report.Details, report.Code)
}

func StreamErrorMessage(err error) string {
	return fmt.Sprintf("Network or stream error: %s", err.Error())
}

type noopMetrics struct{}

func (noopMetrics) SnapshotReceived() {}
func (noopMetrics) StatusReported(models.StatusCode) {}
func (noopMetrics) StreamTerminated(string) {}
func (noopMetrics) Resubscribed() {}
func (noopMetrics) SubscriptionActive(bool) {}
