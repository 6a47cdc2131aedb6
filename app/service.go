// Package app wires the dispatch engine, its sinks and the HTTP surface
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sagip-ops/sagip/api/dispatchapi"
	"github.com/sagip-ops/sagip/config"
	"github.com/sagip-ops/sagip/core/engine"
	coremetrics "github.com/sagip-ops/sagip/core/metrics"
	"github.com/sagip-ops/sagip/infra/logger"
	"github.com/sagip-ops/sagip/infra/metrics"
	"github.com/sagip-ops/sagip/infra/mqtt"
	"github.com/sagip-ops/sagip/internal/eventbus"
)

// Service orchestrates the dispatch engine, metrics sinks, the event
// notifier and the JSON API.
type Service struct {
	Engine *engine.Engine

	bus      eventbus.EventBus
	notifier *mqtt.Notifier
	log      logger.Logger
	api      *http.Server

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink
	switch len(sinks) {
	case 0:
		sink = metrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	eng := engine.New(cfg.Engine,
		engine.WithLogger(logger.New("engine")),
		engine.WithBus(bus),
		engine.WithSink(sink),
	)

	svc := &Service{
		Engine:      eng,
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}

	if cfg.MQTT.Enabled {
		notifier, err := mqtt.NewNotifier(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		svc.notifier = notifier
	}

	handler := dispatchapi.New(eng, logger.New("api"))
	svc.api = &http.Server{
		Addr:              cfg.API.ListenAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.notifier != nil {
		go s.notifier.Run(ctx, s.bus)
	}
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", s.api.Addr)
		if err := s.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.api.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.notifier != nil {
		s.notifier.Close()
	}
	return nil
}
