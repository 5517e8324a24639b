package ports

import (
	"context"

	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
)

// UpdateStream is one open subscription. Recv returns errors.ErrStreamEnded
// once the server closes the stream cleanly.
type UpdateStream interface {
	Recv() (models.Update, error)
}

type UpdateSource interface {
	Open(ctx context.Context, id models.MatchID) (UpdateStream, error)
}

type Display interface {
	ShowMatch(snapshot models.Snapshot)
	ShowError(message string)
	ShowStatusError(message string)
}

type MatchEventSender interface {
	SendGoal(ctx context.Context, id models.MatchID) (models.Snapshot, error)
}

type WatchMetrics interface {
	SnapshotReceived()
	StatusReported(code models.StatusCode)
	StreamTerminated(reason string)
	Resubscribed()
	SubscriptionActive(active bool)
}
