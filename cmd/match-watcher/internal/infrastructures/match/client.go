package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	derr "github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/errors"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/ports"
	matchv1 "github.com/ozzus/fan-live/protos/gen/go/match/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const RequestIDHeader = "x-request-id"

const (
	goalEventType   = "goal"
	goalDescription = "Admin goal"
)

type Client struct {
	log     *zap.Logger
	client  matchv1.MatchServiceClient
	timeout time.Duration
}

func NewClient(log *zap.Logger, client matchv1.MatchServiceClient, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Client{
		log:     log,
		client:  client,
		timeout: timeout,
	}
}

// Open starts a GetMatchUpdates stream. The stream lives as long as ctx.
func (c *Client) Open(ctx context.Context, id models.MatchID) (ports.UpdateStream, error) {
	if id == "" {
		return nil, derr.ErrInvalidMatchID
	}

	requestID := uuid.NewString()
	ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, requestID)

	stream, err := c.client.GetMatchUpdates(ctx, &matchv1.MatchRequest{MatchId: string(id)})
	if err != nil {
		return nil, mapStreamError(err)
	}

	c.log.Debug("match updates stream opened",
		zap.String("match_id", string(id)),
		zap.String("request_id", requestID),
	)

	return &updateStream{ctx: ctx, stream: stream}, nil
}

func (c *Client) SendGoal(ctx context.Context, id models.MatchID) (models.Snapshot, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.UpdateMatchEvent(reqCtx, &matchv1.UpdateMatchEventRequest{
		MatchId:         string(id),
		EventType:       goalEventType,
		Description:     goalDescription,
		HomeScoreChange: 1,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return models.Snapshot{}, err
		}
		st, ok := status.FromError(err)
		if ok {
			switch st.Code() {
			case codes.NotFound:
				return models.Snapshot{}, derr.ErrMatchNotFound
			case codes.Unavailable, codes.DeadlineExceeded:
				return models.Snapshot{}, derr.ErrSourceUnavailable
			}
		}
		return models.Snapshot{}, fmt.Errorf("update match event: %w", err)
	}

	return ToSnapshot(resp), nil
}

// updateStream turns the gRPC stream termination into a status report
// followed by the terminal error, the order a browser client sees them in.
type updateStream struct {
	ctx     context.Context
	stream  grpc.ServerStreamingClient[matchv1.MatchResponse]
	pending error
}

func (s *updateStream) Recv() (models.Update, error) {
	if s.pending != nil {
		return models.Update{}, s.pending
	}

	resp, err := s.stream.Recv()
	if err == nil {
		snapshot := ToSnapshot(resp)
		return models.Update{Snapshot: &snapshot}, nil
	}

	if errors.Is(err, io.EOF) {
		s.pending = derr.ErrStreamEnded
		return models.Update{Status: &models.StatusReport{Code: models.StatusOK}}, nil
	}

	// Only our own cancellation skips the report; a Canceled status sent by
	// the server is reported like any other code.
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return models.Update{}, ctxErr
	}

	st, ok := status.FromError(err)
	if !ok {
		return models.Update{}, mapStreamError(err)
	}

	s.pending = mapStreamError(err)
	return models.Update{Status: &models.StatusReport{
		Code:    models.StatusCode(st.Code()),
		Details: st.Message(),
	}}, nil
}

func mapStreamError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("receive match update: %w", err)
	}

	switch st.Code() {
	case codes.Unavailable:
		return fmt.Errorf("%w: %s", derr.ErrSourceUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", derr.ErrMatchNotFound, st.Message())
	default:
		return fmt.Errorf("receive match update: %w", err)
	}
}
