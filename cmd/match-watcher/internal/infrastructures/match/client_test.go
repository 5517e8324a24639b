package match

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	derr "github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/errors"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/ports"
	matchv1 "github.com/ozzus/fan-live/protos/gen/go/match/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type matchServerStub struct {
	matchv1.UnimplementedMatchServiceServer

	updates  []*matchv1.MatchResponse
	finalErr error
	hold     bool

	mu         sync.Mutex
	matchIDs   []string
	requestIDs []string
	events     []*matchv1.UpdateMatchEventRequest
}

func (s *matchServerStub) GetMatchUpdates(req *matchv1.MatchRequest, stream grpc.ServerStreamingServer[matchv1.MatchResponse]) error {
	md, _ := metadata.FromIncomingContext(stream.Context())

	s.mu.Lock()
	s.matchIDs = append(s.matchIDs, req.GetMatchId())
	s.requestIDs = append(s.requestIDs, md.Get(RequestIDHeader)...)
	s.mu.Unlock()

	for _, u := range s.updates {
		if err := stream.Send(u); err != nil {
			return err
		}
	}
	if s.hold {
		<-stream.Context().Done()
		return stream.Context().Err()
	}
	return s.finalErr
}

func (s *matchServerStub) UpdateMatchEvent(_ context.Context, req *matchv1.UpdateMatchEventRequest) (*matchv1.MatchResponse, error) {
	s.mu.Lock()
	s.events = append(s.events, req)
	s.mu.Unlock()

	if req.GetMatchId() == "missing" {
		return nil, status.Error(codes.NotFound, "match not found")
	}
	return &matchv1.MatchResponse{MatchId: req.GetMatchId(), HomeScore: req.GetHomeScoreChange(), LastEvent: "GOAL! " + req.GetDescription()}, nil
}

func startMatchServer(t *testing.T, srv matchv1.MatchServiceServer) matchv1.MatchServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(matchv1.ServerCodecOption())
	matchv1.RegisterMatchServiceServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return matchv1.NewMatchServiceClient(conn)
}

func openStream(t *testing.T, c *Client) ports.UpdateStream {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	stream, err := c.Open(ctx, "match-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return stream
}

func TestClient_Open_StreamsSnapshotsThenEnds(t *testing.T) {
	srv := &matchServerStub{updates: []*matchv1.MatchResponse{
		{MatchId: "match-123", HomeTeam: "Real Madrid", AwayTeam: "Barcelona", Status: "Live", HomeScore: 1},
		{MatchId: "match-123", HomeTeam: "Real Madrid", AwayTeam: "Barcelona", Status: "Live", HomeScore: 2, LastEvent: "GOAL!"},
	}}
	c := NewClient(zap.NewNop(), startMatchServer(t, srv), time.Second)
	stream := openStream(t, c)

	for i, wantScore := range []int32{1, 2} {
		u, err := stream.Recv()
		if err != nil {
			t.Fatalf("recv %d: expected no error, got %v", i, err)
		}
		if u.Snapshot == nil {
			t.Fatalf("recv %d: expected snapshot, got %+v", i, u)
		}
		if u.Snapshot.HomeScore != wantScore || u.Snapshot.HomeTeam != "Real Madrid" {
			t.Fatalf("recv %d: unexpected snapshot %+v", i, u.Snapshot)
		}
	}

	u, err := stream.Recv()
	if err != nil {
		t.Fatalf("expected status report, got error %v", err)
	}
	if u.Status == nil || !u.Status.OK() {
		t.Fatalf("expected OK status report, got %+v", u)
	}

	for i := 0; i < 2; i++ {
		if _, err := stream.Recv(); !errors.Is(err, derr.ErrStreamEnded) {
			t.Fatalf("expected ErrStreamEnded, got %v", err)
		}
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.matchIDs) != 1 || srv.matchIDs[0] != "match-123" {
		t.Fatalf("unexpected match ids sent: %v", srv.matchIDs)
	}
	if len(srv.requestIDs) != 1 || srv.requestIDs[0] == "" {
		t.Fatalf("expected one request id in metadata, got %v", srv.requestIDs)
	}
}

func TestClient_Open_NonOKStatusReportedBeforeError(t *testing.T) {
	srv := &matchServerStub{
		updates:  []*matchv1.MatchResponse{{MatchId: "match-123"}},
		finalErr: status.Error(codes.ResourceExhausted, "too many watchers"),
	}
	c := NewClient(zap.NewNop(), startMatchServer(t, srv), time.Second)
	stream := openStream(t, c)

	if u, err := stream.Recv(); err != nil || u.Snapshot == nil {
		t.Fatalf("expected snapshot first, got %+v, %v", u, err)
	}

	u, err := stream.Recv()
	if err != nil {
		t.Fatalf("expected status report, got error %v", err)
	}
	if u.Status == nil {
		t.Fatalf("expected status report, got %+v", u)
	}
	if u.Status.Code != models.StatusCode(codes.ResourceExhausted) || u.Status.Details != "too many watchers" {
		t.Fatalf("unexpected status report %+v", u.Status)
	}

	_, err = stream.Recv()
	if err == nil || errors.Is(err, derr.ErrStreamEnded) {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if !strings.Contains(err.Error(), "too many watchers") {
		t.Fatalf("expected status message in error, got %v", err)
	}
}

func TestClient_Open_UnavailableMapsToSourceUnavailable(t *testing.T) {
	srv := &matchServerStub{finalErr: status.Error(codes.Unavailable, "feed down")}
	c := NewClient(zap.NewNop(), startMatchServer(t, srv), time.Second)
	stream := openStream(t, c)

	if u, err := stream.Recv(); err != nil || u.Status == nil || u.Status.Code != models.StatusCode(codes.Unavailable) {
		t.Fatalf("expected Unavailable status report, got %+v, %v", u, err)
	}
	if _, err := stream.Recv(); !errors.Is(err, derr.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestClient_Open_ServerCanceledStatusReportedBeforeError(t *testing.T) {
	srv := &matchServerStub{finalErr: status.Error(codes.Canceled, "match feed cancelled")}
	c := NewClient(zap.NewNop(), startMatchServer(t, srv), time.Second)
	stream := openStream(t, c)

	u, err := stream.Recv()
	if err != nil {
		t.Fatalf("expected status report, got error %v", err)
	}
	if u.Status == nil || u.Status.Code != models.StatusCode(codes.Canceled) || u.Status.Details != "match feed cancelled" {
		t.Fatalf("expected Canceled status report, got %+v", u)
	}

	_, err = stream.Recv()
	if err == nil || errors.Is(err, context.Canceled) {
		t.Fatalf("expected server error, got %v", err)
	}
}

func TestClient_Open_OwnCancelSkipsStatusReport(t *testing.T) {
	srv := &matchServerStub{updates: []*matchv1.MatchResponse{{MatchId: "match-123"}}, hold: true}
	c := NewClient(zap.NewNop(), startMatchServer(t, srv), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := c.Open(ctx, "match-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if u, err := stream.Recv(); err != nil || u.Snapshot == nil {
		t.Fatalf("expected snapshot first, got %+v, %v", u, err)
	}

	cancel()

	u, err := stream.Recv()
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %+v, %v", u, err)
	}
	if u.Status != nil {
		t.Fatalf("expected no status report after own cancel, got %+v", u.Status)
	}
}

func TestClient_Open_EmptyMatchID(t *testing.T) {
	c := NewClient(zap.NewNop(), &matchServiceClientMock{}, time.Second)

	if _, err := c.Open(context.Background(), ""); !errors.Is(err, derr.ErrInvalidMatchID) {
		t.Fatalf("expected ErrInvalidMatchID, got %v", err)
	}
}

func TestClient_SendGoal(t *testing.T) {
	srv := &matchServerStub{}
	c := NewClient(zap.NewNop(), startMatchServer(t, srv), time.Second)

	got, err := c.SendGoal(context.Background(), "match-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.HomeScore != 1 || got.LastEvent != "GOAL! Admin goal" {
		t.Fatalf("unexpected snapshot %+v", got)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.events) != 1 || srv.events[0].GetEventType() != "goal" {
		t.Fatalf("unexpected events sent: %+v", srv.events)
	}
}

type matchServiceClientMock struct {
	err error
}

func (m *matchServiceClientMock) GetMatchUpdates(context.Context, *matchv1.MatchRequest, ...grpc.CallOption) (grpc.ServerStreamingClient[matchv1.MatchResponse], error) {
	return nil, m.err
}

func (m *matchServiceClientMock) UpdateMatchEvent(context.Context, *matchv1.UpdateMatchEventRequest, ...grpc.CallOption) (*matchv1.MatchResponse, error) {
	return nil, m.err
}

func TestClient_SendGoal_MapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "not_found", err: status.Error(codes.NotFound, "no match"), want: derr.ErrMatchNotFound},
		{name: "unavailable", err: status.Error(codes.Unavailable, "down"), want: derr.ErrSourceUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(zap.NewNop(), &matchServiceClientMock{err: tt.err}, time.Second)
			_, err := c.SendGoal(context.Background(), "match-123")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestToSnapshot_NilResponse(t *testing.T) {
	got := ToSnapshot(nil)
	if got.MatchID != "" || got.Cards != nil {
		t.Fatalf("expected zero snapshot, got %+v", got)
	}
}
