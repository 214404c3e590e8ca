package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"swapextract/internal/config"
	"swapextract/internal/extract"
	"swapextract/internal/metrics"
	"swapextract/internal/storage"
	"swapextract/internal/storage/postgres"
)

// outputs holds the destinations enabled by the output flags.
type outputs struct {
	events     *storage.JSONFile
	raw        *storage.JsonlStorage
	errors     *storage.JsonlStorage
	store      *postgres.Store
	recorder   *metrics.Recorder
	metricsOut string
}

func openOutputs(ctx context.Context, cfg config.Output, logger *zap.Logger) (*outputs, error) {
	out := &outputs{
		events:     storage.NewJSONFile(cfg.Out),
		metricsOut: cfg.MetricsOut,
	}
	if cfg.RawOut != "" {
		out.raw = storage.NewJsonlStorage(cfg.RawOut)
	}
	if cfg.Errors != "" {
		out.errors = storage.NewJsonlStorage(cfg.Errors)
	}
	if cfg.MetricsOut != "" {
		out.recorder = metrics.NewRecorder("swapextract")
	}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		out.store = store
		logger.Info("postgres sink enabled")
	}
	return out, nil
}

func (o *outputs) options(logger *zap.Logger) []extract.Option {
	opts := []extract.Option{
		extract.WithLogger(logger),
		extract.WithMetrics(o.recorder),
	}
	if o.raw != nil {
		opts = append(opts, extract.WithRawSink(o.raw))
	}
	if o.errors != nil {
		opts = append(opts, extract.WithErrorSink(o.errors))
	}
	if o.store != nil {
		opts = append(opts, extract.WithEventStore(o.store))
	}
	return opts
}

func (o *outputs) writeMetrics() error {
	if o.recorder == nil {
		return nil
	}
	return o.recorder.WriteTextfile(o.metricsOut)
}

func (o *outputs) Close() {
	if o.store != nil {
		o.store.Close()
	}
}
