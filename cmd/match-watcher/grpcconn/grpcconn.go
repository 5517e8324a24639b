package grpcconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const tracerName = "match-watcher/grpc"

// New creates a lazily connected client for addr. Extra dial options are
// appended after the defaults, so tests can swap the dialer.
func New(log *zap.Logger, addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	const op = "grpcconn.New"

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			tracingUnaryInterceptor(),
			loggingUnaryInterceptor(log),
		),
		grpc.WithChainStreamInterceptor(
			tracingStreamInterceptor(),
			loggingStreamInterceptor(log),
		),
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gRPC client created", zap.String("addr", addr))
	return conn, nil
}

func tracingUnaryInterceptor() grpc.UnaryClientInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx, span := tracer.Start(ctx, method, trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		err := invoker(injectTrace(ctx), method, req, reply, cc, opts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status.Code(err).String())
		}
		return err
	}
}

func tracingStreamInterceptor() grpc.StreamClientInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		ctx, span := tracer.Start(ctx, method, trace.WithSpanKind(trace.SpanKindClient))

		stream, err := streamer(injectTrace(ctx), desc, cc, method, opts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status.Code(err).String())
			span.End()
			return nil, err
		}

		return &tracedStream{ClientStream: stream, span: span}, nil
	}
}

func injectTrace(ctx context.Context) context.Context {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	otel.GetTextMapPropagator().Inject(ctx, metadataCarrier(md))
	return metadata.NewOutgoingContext(ctx, md)
}

// tracedStream ends its span on the first terminal RecvMsg result.
type tracedStream struct {
	grpc.ClientStream
	span trace.Span
	once sync.Once
}

func (s *tracedStream) RecvMsg(m any) error {
	err := s.ClientStream.RecvMsg(m)
	if err != nil {
		s.once.Do(func() {
			if !errors.Is(err, io.EOF) {
				s.span.RecordError(err)
				s.span.SetStatus(codes.Error, status.Code(err).String())
			}
			s.span.End()
		})
	}
	return err
}

type metadataCarrier metadata.MD

func (c metadataCarrier) Get(key string) string {
	values := metadata.MD(c).Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (c metadataCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

func loggingUnaryInterceptor(log *zap.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()

		err := invoker(ctx, method, req, reply, cc, opts...)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}

		if err != nil {
			log.Error("gRPC call failed", append(fields, zap.Error(err))...)
			return err
		}

		log.Debug("gRPC call", fields...)
		return nil
	}
}

func loggingStreamInterceptor(log *zap.Logger) grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		start := time.Now()

		stream, err := streamer(ctx, desc, cc, method, opts...)
		if err != nil {
			log.Error("gRPC stream open failed",
				zap.String("method", method),
				zap.String("code", status.Code(err).String()),
				zap.Error(err),
			)
			return nil, err
		}

		log.Debug("gRPC stream opened", zap.String("method", method))
		return &loggedStream{ClientStream: stream, log: log, method: method, start: start}, nil
	}
}

type loggedStream struct {
	grpc.ClientStream
	log      *zap.Logger
	method   string
	start    time.Time
	received int
	once     sync.Once
}

func (s *loggedStream) RecvMsg(m any) error {
	err := s.ClientStream.RecvMsg(m)
	if err == nil {
		s.received++
		return nil
	}

	s.once.Do(func() {
		code := status.Code(err).String()
		if errors.Is(err, io.EOF) {
			code = "OK"
		}
		fields := []zap.Field{
			zap.String("method", s.method),
			zap.String("code", code),
			zap.Int("received", s.received),
			zap.Duration("duration", time.Since(s.start)),
		}
		if errors.Is(err, io.EOF) {
			s.log.Info("gRPC stream finished", fields...)
			return
		}
		s.log.Warn("gRPC stream failed", append(fields, zap.Error(err))...)
	})
	return err
}
