package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Reporter periodically logs a snapshot of an InMemory collector. It is
// decoupled from the engine loop: the engine only feeds the collector,
// and the reporter reads it on its own ticker.
type Reporter struct {
	collector *InMemory
	logger    *slog.Logger
	interval  time.Duration
}

// NewReporter creates a Reporter. Interval defaults to 30 seconds when
// non-positive.
func NewReporter(collector *InMemory, logger *slog.Logger, interval time.Duration) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Reporter{collector: collector, logger: logger, interval: interval}
}

// Run blocks, emitting a report every interval until the context is
// cancelled. A final report is emitted on shutdown.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.report()
			return
		case <-ticker.C:
			r.report()
		}
	}
}

func (r *Reporter) report() {
	s := r.collector.Snapshot()
	if s.Runs == 0 && s.OracleCalls == 0 {
		return
	}

	r.logger.Info("telemetry report",
		"runs", s.Runs,
		"resolved_runs", s.ResolvedRuns,
		"total_steps", s.TotalSteps,
		"reflections", s.Reflections,
		"oracle_calls", s.OracleCalls,
		"prompt_tokens", s.PromptTokens,
		"completion_tokens", s.CompletionTokens,
	)
}
