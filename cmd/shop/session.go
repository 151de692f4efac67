package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adnanskuyy/ShoppingABTest/analytics"
	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	"github.com/Adnanskuyy/ShoppingABTest/internal/config"
	"github.com/Adnanskuyy/ShoppingABTest/internal/logging"
	"github.com/Adnanskuyy/ShoppingABTest/scene"
)

const sinkCloseTimeout = 5 * time.Second

// shopSession owns a scene and everything its events are delivered to.
type shopSession struct {
	scene    *scene.Scene
	settings *settings
	logger   *zap.Logger
	registry *prometheus.Registry
	eventLog *analytics.EventLog

	closers []func(context.Context) error
	metrics *http.Server
}

func openSession(cmd *cobra.Command) (*shopSession, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), logging.Options{Verbose: cfg.verbose})

	cat, err := cfg.loadCatalog()
	if err != nil {
		return nil, err
	}

	ss := &shopSession{
		settings: cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	runID := uuid.NewString()

	eventLog, err := analytics.OpenEventLog(runID, analytics.EventLogOptions{EventsDir: cfg.eventsDir})
	if err != nil {
		return nil, err
	}
	ss.eventLog = eventLog
	ss.closers = append(ss.closers, func(context.Context) error { return eventLog.Close() })
	sinks := analytics.Multi{eventLog}

	if cfg.sqlitePath != "" {
		store, err := analytics.OpenSQLite(cfg.sqlitePath)
		if err != nil {
			ss.close()
			return nil, err
		}
		ss.closers = append(ss.closers, func(context.Context) error { return store.Close() })
		sinks = append(sinks, store)
	}
	if cfg.endpoint != "" {
		remote, err := analytics.NewHTTPSink(analytics.HTTPOptions{
			Endpoint: cfg.endpoint,
			Logger:   logger.Named("http-sink"),
		})
		if err != nil {
			ss.close()
			return nil, err
		}
		ss.closers = append(ss.closers, remote.Close)
		sinks = append(sinks, remote)
	}
	metrics, err := analytics.NewMetricsSink(ss.registry)
	if err != nil {
		ss.close()
		return nil, err
	}
	sinks = append(sinks, metrics)

	duration := cfg.duration
	if duration <= 0 {
		duration = experiment.DefaultDuration
	}
	ss.scene = scene.New(scene.Options{
		Catalog:              cat,
		Source:               cfg.source,
		Sink:                 sinks,
		Duration:             duration,
		PauseOnConfirm:       cfg.pauseOnConfirm,
		NotificationDuration: cfg.notificationDuration,
		RunID:                runID,
		Logger:               logger,
	})
	logger.Debug("session opened",
		zap.String("run_id", runID),
		zap.String("events", eventLog.Path()),
		zap.Duration("duration", duration),
	)
	return ss, nil
}

// serveMetrics exposes the registry on addr until the session closes.
func (ss *shopSession) serveMetrics(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", ss.metricsHandler())
	ss.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := ss.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ss.logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
}

func (ss *shopSession) metricsHandler() http.Handler {
	return promhttp.HandlerFor(ss.registry, promhttp.HandlerOpts{})
}

// finish runs the on-end hook for a finished session.
func (ss *shopSession) finish(ctx context.Context, result *experiment.Result, stdout, stderr io.Writer) error {
	if result == nil || ss.settings.onEnd == "" {
		return nil
	}
	env := []string{
		"SHOP_CODE=" + result.Code,
		"SHOP_UID=" + result.ParticipantID,
		"SHOP_VARIANT=" + result.Variant.String(),
		"SHOP_RUN_ID=" + result.RunID,
	}
	if err := config.RunHook(ctx, ss.settings.dir, ss.settings.onEnd, env, stdout, stderr); err != nil {
		return fmt.Errorf("on-end hook: %w", err)
	}
	return nil
}

func (ss *shopSession) close() {
	ctx, cancel := context.WithTimeout(context.Background(), sinkCloseTimeout)
	defer cancel()
	if ss.scene != nil {
		ss.scene.Dispose()
	}
	if ss.metrics != nil {
		_ = ss.metrics.Shutdown(ctx)
	}
	for i := len(ss.closers) - 1; i >= 0; i-- {
		if err := ss.closers[i](ctx); err != nil {
			ss.logger.Warn("close analytics sink", zap.Error(err))
		}
	}
	ss.closers = nil
	_ = ss.logger.Sync()
}
