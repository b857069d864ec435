package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fleetsight/telemetry-risk/internal/domain"
	"github.com/fleetsight/telemetry-risk/internal/observability"
	"github.com/fleetsight/telemetry-risk/internal/risk"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw event into a telemetry event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.TelemetryEvent, error)
}

// ReportPublisher writes a computed risk report to the destination.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *risk.Report) error
}

// Pipeline orchestrates the consume-accumulate-analyze loop: raw events flow
// into a bounded in-memory window, and on every flush interval the full risk
// engine runs over the current window and the resulting report is published.
// The engine stays stateless; all accumulation lives here.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	publisher   ReportPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics

	batchSize     int
	flushInterval time.Duration
	windowMax     int

	mu     sync.Mutex
	window []domain.TelemetryEvent

	latest atomic.Pointer[risk.Report]
	ready  atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, p ReportPublisher, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, windowMax int) *Pipeline {
	return &Pipeline{
		extractor:     e,
		transformer:   t,
		publisher:     p,
		logger:        logger,
		metrics:       metrics,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		windowMax:     windowMax,
	}
}

// CheckReadiness returns nil once the pipeline has published at least one
// report, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published a report yet")
	}
	return nil
}

// LatestReport returns the most recently published report, or nil before the
// first flush. Served by the HTTP adapter to dashboard consumers.
func (p *Pipeline) LatestReport() *risk.Report {
	return p.latest.Load()
}

// Run executes the consume-analyze loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"batch_size", p.batchSize,
		"flush_interval", p.flushInterval,
		"window_max_events", p.windowMax,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during Kafka outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	clock := domain.Clock()
	lastFlush := clock.Now()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.consumeBatch(ctx, &backoff, maxBackoff) {
			return nil
		}

		if clock.Since(lastFlush) >= p.flushInterval {
			if !p.flush(ctx, &backoff, maxBackoff) {
				return nil
			}
			lastFlush = clock.Now()
		}
	}
}

// consumeBatch runs one extract-transform-accumulate cycle. Returns false if
// the pipeline should stop.
func (p *Pipeline) consumeBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.EventsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	for _, raw := range rawBatch {
		event, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.ParseErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		p.appendToWindow(event)
		p.commitOffset(ctx, raw)
	}

	return true
}

// appendToWindow adds one event, dropping the oldest once the cap is reached.
func (p *Pipeline) appendToWindow(event domain.TelemetryEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.window = append(p.window, event)
	if len(p.window) > p.windowMax {
		overflow := len(p.window) - p.windowMax
		p.window = append(p.window[:0:0], p.window[overflow:]...)
	}
	p.metrics.WindowEvents.Set(float64(len(p.window)))
}

// flush computes a report over the current window and publishes it. An empty
// window publishes nothing. Returns false if the pipeline should stop.
func (p *Pipeline) flush(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	events := p.snapshotWindow()
	if len(events) == 0 {
		return true
	}

	start := time.Now()
	report := risk.BuildReport(events)
	p.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if err := p.publisher.PublishReport(ctx, report); err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("publish report failed", "error", err, "report_id", report.ID)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	p.metrics.ReportsPublished.Inc()
	p.metrics.AlertsBySeverity.WithLabelValues(string(report.Alert.Severity)).Inc()
	p.metrics.ProfilesPerReport.Observe(float64(len(report.OperatorProfiles) + len(report.VehicleProfiles)))

	p.latest.Store(report)
	p.ready.Store(true)

	p.logger.Info("report published",
		"report_id", report.ID,
		"events", report.TotalEvents,
		"alert_severity", report.Alert.Severity,
		"operators", len(report.OperatorProfiles),
		"vehicles", len(report.VehicleProfiles),
	)
	return true
}

// snapshotWindow copies the window so the engine never sees concurrent appends.
func (p *Pipeline) snapshotWindow() []domain.TelemetryEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	events := make([]domain.TelemetryEvent, len(p.window))
	copy(events, p.window)
	return events
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
