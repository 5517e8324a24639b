package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	derr "github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/errors"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/ports"
	"go.uber.org/zap"
)

type GoalHandler struct {
	log     *zap.Logger
	sender  ports.MatchEventSender
	matchID models.MatchID
	timeout time.Duration
}

type goalResponse struct {
	MatchID   string `json:"match_id"`
	HomeScore int32  `json:"home_score"`
	AwayScore int32  `json:"away_score"`
	LastEvent string `json:"last_event"`
}

// NewGoalHandler accepts a nil sender; the endpoint then answers 501.
func NewGoalHandler(log *zap.Logger, sender ports.MatchEventSender, matchID models.MatchID, timeout time.Duration) *GoalHandler {
	return &GoalHandler{log: log, sender: sender, matchID: matchID, timeout: timeout}
}

func (h *GoalHandler) SimulateGoal(w http.ResponseWriter, r *http.Request) {
	if h.sender == nil {
		writeError(w, http.StatusNotImplemented, derr.ErrEventSenderMissing.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.sender.SendGoal(ctx, h.matchID)
	if err != nil {
		h.log.Error("simulate goal failed", zap.Error(err), zap.String("match_id", string(h.matchID)))
		status, message := mapGoalError(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, goalResponse{
		MatchID:   string(snapshot.MatchID),
		HomeScore: snapshot.HomeScore,
		AwayScore: snapshot.AwayScore,
		LastEvent: snapshot.LastEvent,
	})
}

func mapGoalError(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "match service timeout"
	case errors.Is(err, derr.ErrMatchNotFound):
		return http.StatusNotFound, "match not found"
	case errors.Is(err, derr.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, "match service unavailable"
	default:
		return http.StatusBadGateway, "match service error"
	}
}
