package wshub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	derr "github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/errors"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/ports"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/infrastructures/match"
	matchv1 "github.com/ozzus/fan-live/protos/gen/go/match/v1"
	"go.uber.org/zap"
)

const matchIDParam = "match_id"

// Source subscribes to the match service WebSocket hub
// (ws://host/ws?match_id=<id>). The hub pushes MatchResponse JSON and may
// pack several queued objects into one frame.
type Source struct {
	log     *zap.Logger
	baseURL string
	dialer  *websocket.Dialer
}

func NewSource(log *zap.Logger, baseURL string, handshakeTimeout time.Duration) *Source {
	if handshakeTimeout <= 0 {
		handshakeTimeout = 5 * time.Second
	}

	return &Source{
		log:     log,
		baseURL: baseURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

func (s *Source) Open(ctx context.Context, id models.MatchID) (ports.UpdateStream, error) {
	const op = "websocket.Source.Open"

	if id == "" {
		return nil, derr.ErrInvalidMatchID
	}

	endpoint, err := subscriptionURL(s.baseURL, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, resp, err := s.dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: dial %s: %v", derr.ErrSourceUnavailable, endpoint, err)
	}

	s.log.Debug("websocket subscription opened", zap.String("match_id", string(id)), zap.String("url", endpoint))

	stream := &wsStream{
		ctx:  ctx,
		conn: conn,
		done: make(chan struct{}),
	}
	go stream.closeOnCancel()

	return stream, nil
}

func subscriptionURL(base string, id models.MatchID) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse websocket url %q: %w", base, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("websocket url %q: scheme must be ws or wss", base)
	}

	q := u.Query()
	q.Set(matchIDParam, string(id))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

type wsStream struct {
	ctx     context.Context
	conn    *websocket.Conn
	done    chan struct{}
	once    sync.Once
	pending []models.Snapshot
	err     error
}

func (s *wsStream) closeOnCancel() {
	select {
	case <-s.ctx.Done():
		_ = s.conn.Close()
	case <-s.done:
	}
}

func (s *wsStream) Recv() (models.Update, error) {
	for len(s.pending) == 0 {
		if s.err != nil {
			return models.Update{}, s.err
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.terminate(s.mapReadError(err))
			continue
		}

		snapshots, err := decodeFrame(data)
		if err != nil {
			s.terminate(err)
			continue
		}
		s.pending = snapshots
	}

	snapshot := s.pending[0]
	s.pending = s.pending[1:]
	return models.Update{Snapshot: &snapshot}, nil
}

func (s *wsStream) mapReadError(err error) error {
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return derr.ErrStreamEnded
	}
	return fmt.Errorf("read websocket message: %w", err)
}

func (s *wsStream) terminate(err error) {
	s.err = err
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func decodeFrame(data []byte) ([]models.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var snapshots []models.Snapshot
	for {
		var resp matchv1.MatchResponse
		if err := dec.Decode(&resp); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode match update frame: %w", err)
		}
		snapshots = append(snapshots, match.ToSnapshot(&resp))
	}

	if len(snapshots) == 0 {
		return nil, fmt.Errorf("decode match update frame: empty frame")
	}
	return snapshots, nil
}
