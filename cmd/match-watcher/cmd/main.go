package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ozzus/fan-live/cmd/match-watcher/grpcconn"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/api/http/handlers"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/application/service"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/config"
	derr "github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/errors"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/ports"
	matchclient "github.com/ozzus/fan-live/cmd/match-watcher/internal/infrastructures/match"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/infrastructures/metrics"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/infrastructures/tracing"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/infrastructures/wshub"
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/view"
	matchv1 "github.com/ozzus/fan-live/protos/gen/go/match/v1"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("match-watcher starting",
		zap.String("env", cfg.Env),
		zap.String("transport", cfg.Source.Transport),
		zap.String("match_id", cfg.Watch.MatchID),
	)

	tp, err := tracing.InitTracer("match-watcher", cfg.Jaeger)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	source, sender, closer, err := buildSource(log, cfg.Source)
	if err != nil {
		log.Fatal("failed to build update source", zap.Error(err), zap.String("transport", cfg.Source.Transport))
	}
	defer func() {
		_ = closer.Close()
	}()

	page := view.NewPage()
	if !cfg.Terminal.Disabled {
		renderer := view.NewTerminalRenderer(os.Stdout, cfg.Terminal.NoColor)
		page.Observe(renderer.Render)
		renderer.Render(page.State())
	}

	metricsManager := metrics.NewManager(
		metrics.WithNamespace(cfg.Metrics.Namespace),
		metrics.WithHistogramBuckets(cfg.Metrics.HTTPBuckets),
	)
	watcher := service.NewWatcher(log, source, page, metricsManager, models.MatchID(cfg.Watch.MatchID), cfg.Watch.RetryDelay)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		errCh <- watcher.Run(ctx)
	}()

	var server *http.Server
	if cfg.HTTP.Port != 0 {
		router := handlers.NewRouter(log, handlers.RouterDeps{
			Page:    handlers.NewPageHandler(log, page),
			Goal:    handlers.NewGoalHandler(log, sender, models.MatchID(cfg.Watch.MatchID), cfg.Source.Timeout),
			Metrics: metricsManager.Handler(),
			Observe: metricsManager,
		})
		server = &http.Server{
			Addr:         cfg.HTTP.Address(),
			Handler:      router,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		}
		go func() {
			log.Info("page server started", zap.String("http_addr", server.Addr))
			errCh <- server.ListenAndServe()
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("match-watcher stopped", zap.Error(err))
		}
		stop()
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown error", zap.Error(err))
		}
	}
}

// buildSource returns the update source for the configured transport. The
// goal sender is nil when the transport cannot send events.
func buildSource(log *zap.Logger, cfg config.SourceConfig) (ports.UpdateSource, ports.MatchEventSender, io.Closer, error) {
	switch cfg.Transport {
	case config.TransportGRPC:
		conn, err := grpcconn.New(log, cfg.Address())
		if err != nil {
			return nil, nil, nil, err
		}
		client := matchclient.NewClient(log, matchv1.NewMatchServiceClient(conn), cfg.Timeout)
		return client, client, conn, nil
	case config.TransportWebSocket:
		return wshub.NewSource(log, cfg.WebSocketURL, cfg.Timeout), nil, closerFunc(func() error { return nil }), nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %s", derr.ErrUnsupportedTransport, cfg.Transport)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func setupLogger(level string) *zap.Logger {
	zapLevel := parseLogLevel(level)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
