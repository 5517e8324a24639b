package grpcconn

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"

	matchv1 "github.com/ozzus/fan-live/protos/gen/go/match/v1"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type serverStub struct {
	matchv1.UnimplementedMatchServiceServer

	mu           sync.Mutex
	traceparents []string
}

func (s *serverStub) record(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	s.mu.Lock()
	s.traceparents = append(s.traceparents, md.Get("traceparent")...)
	s.mu.Unlock()
}

func (s *serverStub) GetMatchUpdates(req *matchv1.MatchRequest, stream grpc.ServerStreamingServer[matchv1.MatchResponse]) error {
	s.record(stream.Context())
	for i := 0; i < 2; i++ {
		if err := stream.Send(&matchv1.MatchResponse{MatchId: req.GetMatchId(), HomeScore: int32(i)}); err != nil {
			return err
		}
	}
	return nil
}

func (s *serverStub) UpdateMatchEvent(ctx context.Context, _ *matchv1.UpdateMatchEventRequest) (*matchv1.MatchResponse, error) {
	s.record(ctx)
	return nil, status.Error(codes.NotFound, "match not found")
}

func setupTracing(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()

	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})
	return recorder
}

func dial(t *testing.T, log *zap.Logger, srv *serverStub) matchv1.MatchServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(matchv1.ServerCodecOption())
	matchv1.RegisterMatchServiceServer(s, srv)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := New(log, "passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("unexpected dial error: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return matchv1.NewMatchServiceClient(conn)
}

func TestStreamInterceptors_PropagateTraceAndLogEnd(t *testing.T) {
	recorder := setupTracing(t)
	core, logs := observer.New(zapcore.DebugLevel)
	srv := &serverStub{}
	client := dial(t, zap.New(core), srv)

	stream, err := client.GetMatchUpdates(context.Background(), &matchv1.MatchRequest{MatchId: "match-123"})
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}

	received := 0
	for {
		_, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected recv error: %v", err)
		}
		received++
	}

	if received != 2 {
		t.Fatalf("expected 2 messages, got %d", received)
	}

	srv.mu.Lock()
	traceparents := len(srv.traceparents)
	srv.mu.Unlock()
	if traceparents != 1 {
		t.Fatalf("expected traceparent header on the stream, got %d", traceparents)
	}

	ended := recorder.Ended()
	if len(ended) != 1 || ended[0].Name() != matchv1.MatchService_GetMatchUpdates_FullMethodName {
		t.Fatalf("expected one ended stream span, got %d", len(ended))
	}

	finished := logs.FilterMessage("gRPC stream finished").All()
	if len(finished) != 1 {
		t.Fatalf("expected one stream finished log, got %d", len(finished))
	}
	if got := finished[0].ContextMap()["received"]; got != int64(2) {
		t.Fatalf("expected received=2 in log, got %v", got)
	}
}

func TestUnaryInterceptors_RecordFailure(t *testing.T) {
	recorder := setupTracing(t)
	core, logs := observer.New(zapcore.DebugLevel)
	srv := &serverStub{}
	client := dial(t, zap.New(core), srv)

	_, err := client.UpdateMatchEvent(context.Background(), &matchv1.UpdateMatchEventRequest{MatchId: "missing"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	failed := logs.FilterMessage("gRPC call failed").All()
	if len(failed) != 1 {
		t.Fatalf("expected one failure log, got %d", len(failed))
	}
	if got := failed[0].ContextMap()["code"]; got != codes.NotFound.String() {
		t.Fatalf("expected code NotFound in log, got %v", got)
	}

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected one ended span, got %d", len(ended))
	}
	if len(ended[0].Events()) == 0 {
		t.Fatalf("expected error event recorded on span")
	}
}

func TestMetadataCarrier(t *testing.T) {
	md := metadata.MD{}
	c := metadataCarrier(md)
	c.Set("traceparent", "00-abc")

	if got := c.Get("traceparent"); got != "00-abc" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := c.Get("missing"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
	if keys := c.Keys(); len(keys) != 1 || keys[0] != "traceparent" {
		t.Fatalf("expected one key, got %v", keys)
	}
}
