package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"swapextract/internal/metrics"
	"swapextract/internal/model"
	"swapextract/internal/storage"
)

// LogSource fetches the logs matching a query in one request. Elements of the
// response that cannot be read are returned as decode errors.
type LogSource interface {
	FetchLogs(ctx context.Context, query model.LogQuery) ([]model.RawLog, []model.DecodeError, error)
}

// Decoder turns one raw log into a swap event.
type Decoder interface {
	Decode(log model.RawLog) (model.SwapEvent, error)
}

// ErrorSink records logs that failed to decode.
type ErrorSink interface {
	PutDecodeErrors(errs []model.DecodeError) error
}

// EventStore persists decoded events in a database.
type EventStore interface {
	InsertSwapEvents(ctx context.Context, events []model.SwapEvent) (int64, error)
}

// RunConfig holds runtime settings for the runner.
type RunConfig struct {
	Query   model.LogQuery
	Timeout time.Duration
}

// Summary reports the outcome of a run.
type Summary struct {
	Fetched  int
	Decoded  int
	Failed   int
	Inserted int64
}

// Runner fetches logs once, decodes them in order and writes the result.
type Runner struct {
	cfg     RunConfig
	source  LogSource
	decoder Decoder
	output  storage.EventWriter
	rawSink storage.Storage
	errSink ErrorSink
	store   EventStore
	metrics *metrics.Recorder
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures optional Runner dependencies.
type Option func(*Runner)

// WithRawSink stores every fetched log once the output is written.
func WithRawSink(sink storage.Storage) Option {
	return func(r *Runner) {
		r.rawSink = sink
	}
}

// WithErrorSink records decode failures.
func WithErrorSink(sink ErrorSink) Option {
	return func(r *Runner) {
		r.errSink = sink
	}
}

// WithEventStore inserts decoded events after the output file is written.
func WithEventStore(store EventStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithMetrics records run counters on recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(r *Runner) {
		r.metrics = recorder
	}
}

// WithLogger replaces the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source LogSource, decoder Decoder, output storage.EventWriter, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		source:  source,
		decoder: decoder,
		output:  output,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run fetches the configured logs and processes them. A fetch failure is
// fatal; decode failures are not.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.source == nil {
		return Summary{}, fmt.Errorf("log source is nil")
	}

	q := r.cfg.Query
	r.logger.Info("running the query",
		zap.String("address", q.Address.Hex()),
		zap.String("topic0", q.Topic0.Hex()),
		zap.Uint64("from", q.FromBlock),
		zap.Uint64("to", q.ToBlock),
	)

	logs, failures, err := r.fetch(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch logs: %w", err)
	}

	r.logger.Info("fetched swap logs", zap.Int("count", len(logs)))
	if len(logs) > 0 {
		r.logger.Info("example log (first one)", zap.Any("log", logs[0]))
	} else {
		r.logger.Info("no logs returned")
	}
	for _, failure := range failures {
		r.logger.Warn("unreadable log in response", zap.String("error", failure.Error))
	}

	return r.process(ctx, logs, failures, true)
}

func (r *Runner) fetch(ctx context.Context) ([]model.RawLog, []model.DecodeError, error) {
	fetchCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := r.now()
	logs, failures, err := r.source.FetchLogs(fetchCtx, r.cfg.Query)
	if err != nil {
		return nil, nil, err
	}
	r.metrics.ObserveFetch(len(logs), r.now().Sub(start))
	return logs, failures, nil
}

// Process decodes logs in input order and writes the decoded events.
// failures carries errors recorded before decoding, such as unparseable input.
func (r *Runner) Process(ctx context.Context, logs []model.RawLog, failures []model.DecodeError) (Summary, error) {
	return r.process(ctx, logs, failures, false)
}

// process writes the JSON output first. Optional sinks run afterwards and
// their errors are joined, so a failing sink never prevents the output.
func (r *Runner) process(ctx context.Context, logs []model.RawLog, failures []model.DecodeError, withRaw bool) (Summary, error) {
	if r.decoder == nil {
		return Summary{}, fmt.Errorf("decoder is nil")
	}
	if r.output == nil {
		return Summary{}, fmt.Errorf("output is nil")
	}

	events := make([]model.SwapEvent, 0, len(logs))
	for _, log := range logs {
		event, err := r.decoder.Decode(log)
		if err != nil {
			r.logger.Warn("error decoding log", logFields(log, err)...)
			failures = append(failures, model.NewDecodeError(log, err))
			continue
		}
		events = append(events, event)
		r.metrics.IncDecoded()
	}

	summary := Summary{
		Fetched: len(logs),
		Decoded: len(events),
		Failed:  len(failures),
	}
	r.metrics.AddFailures(len(failures))

	if err := r.output.WriteEvents(events); err != nil {
		return summary, fmt.Errorf("write output: %w", err)
	}
	r.logger.Info("saved decoded swap events",
		zap.Int("count", summary.Decoded),
		zap.Int("failed", summary.Failed),
	)

	var sinkErrs []error
	if withRaw && r.rawSink != nil {
		if err := r.rawSink.PutLogBatch(logs); err != nil {
			sinkErrs = append(sinkErrs, fmt.Errorf("store raw logs: %w", err))
		}
	}
	if r.errSink != nil && len(failures) > 0 {
		if err := r.errSink.PutDecodeErrors(failures); err != nil {
			sinkErrs = append(sinkErrs, fmt.Errorf("store decode errors: %w", err))
		}
	}
	if r.store != nil {
		inserted, err := r.store.InsertSwapEvents(ctx, events)
		if err != nil {
			sinkErrs = append(sinkErrs, fmt.Errorf("insert events: %w", err))
		} else {
			summary.Inserted = inserted
			r.logger.Info("inserted swap events", zap.Int64("inserted", inserted))
		}
	}

	if err := errors.Join(sinkErrs...); err != nil {
		return summary, err
	}
	r.metrics.MarkSuccess(r.now())
	return summary, nil
}

func logFields(log model.RawLog, err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	if log.BlockNumber != nil {
		fields = append(fields, zap.Uint64("block_number", *log.BlockNumber))
	}
	if log.TxHash != nil {
		fields = append(fields, zap.String("tx_hash", *log.TxHash))
	}
	return fields
}
