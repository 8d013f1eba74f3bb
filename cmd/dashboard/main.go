package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/thermo-gauge-service/internal/adapter/csvsource"
	httpadapter "github.com/couchcryptid/thermo-gauge-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/thermo-gauge-service/internal/adapter/kafka"
	"github.com/couchcryptid/thermo-gauge-service/internal/animate"
	"github.com/couchcryptid/thermo-gauge-service/internal/config"
	"github.com/couchcryptid/thermo-gauge-service/internal/dashboard"
	"github.com/couchcryptid/thermo-gauge-service/internal/gauge"
	"github.com/couchcryptid/thermo-gauge-service/internal/observability"
	"github.com/couchcryptid/thermo-gauge-service/internal/render"
)

const startupLoadAttempts = 5

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()
	geometry := gauge.DefaultConfig()

	loop := animate.NewFrameLoop(clock, cfg.FrameInterval, metrics)
	animator, err := animate.NewAnimator(geometry, loop, clock, animate.Options{
		Duration:             cfg.TransitionDuration,
		RestartFromDisplayed: cfg.RestartFromDisplayed,
	}, logger, metrics)
	if err != nil {
		logger.Error("failed to create animator", "error", err)
		os.Exit(1)
	}

	// Frame stream (feature-flagged via KAFKA_ENABLED).
	var publisher *kafkaadapter.FramePublisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewFramePublisher(kafkaadapter.NewKafkaWriter(cfg), cfg.FrameBufferSize, clock, logger, metrics)
		logger.Info("frame stream enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaFrameTopic)
	} else {
		logger.Info("frame stream disabled")
	}

	svgs := make([]*render.SVGGauge, 0, 2)
	for _, id := range []string{animate.MinGauge, animate.MaxGauge} {
		svg := render.NewSVGGauge(id, geometry)
		var r animate.Renderable = svg
		if publisher != nil {
			r = render.Fanout{svg, publisher.ForGauge(id)}
		}
		if _, err := animator.AddGauge(id, r); err != nil {
			logger.Error("failed to register gauge", "gauge", id, "error", err)
			os.Exit(1)
		}
		svgs = append(svgs, svg)
	}

	source := csvsource.NewFileSource(cfg.DataPath, logger, metrics)
	svc := dashboard.NewService(source, animator, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing file at startup leaves the service unready rather than down,
	// so a scheduled reload can pick the file up later.
	if err := svc.LoadInitial(ctx, clock, startupLoadAttempts); err != nil {
		logger.Error("initial dataset load failed", "path", cfg.DataPath, "error", err)
	}

	reload := dashboard.NewReloadJob(svc, cfg.DataReloadInterval)
	if err := reload.Start(); err != nil {
		logger.Error("failed to schedule dataset reload", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Dashboard: svc,
		Gauges:    svgs,
		Layout:    gauge.BuildLayout(geometry),
		Cache:     render.NewCache(cfg.RenderCacheSize, metrics),
		Logger:    logger,
	})

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start frame loop.
	go func() {
		if err := loop.Run(ctx); err != nil {
			logger.Error("frame loop error", "error", err)
		}
	}()

	// Start frame stream.
	publisherDone := make(chan struct{})
	go func() {
		defer close(publisherDone)
		if publisher == nil {
			return
		}
		if err := publisher.Run(ctx); err != nil {
			logger.Error("frame publisher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	reload.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-publisherDone:
	case <-shutdownCtx.Done():
		logger.Error("frame publisher did not stop before shutdown timeout")
	}

	logger.Info("shutdown complete")
}
