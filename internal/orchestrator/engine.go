package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/authz"
	"github.com/synapse-ops/synapse/internal/llm"
	"github.com/synapse-ops/synapse/internal/policy"
	"github.com/synapse-ops/synapse/internal/telemetry"
	"github.com/synapse-ops/synapse/internal/types"
)

const (
	defaultMaxSteps       = 15
	defaultMaxReflections = 3
	defaultOracleTimeout  = 30 * time.Second
)

// Engine drives the reason, act, reflect loop for one incident at a
// time. It owns no global state; everything it needs is injected.
type Engine struct {
	oracle    llm.Oracle
	registry  *action.Registry
	policy    *policy.Policy
	gate      *authz.Gate
	collector telemetry.Collector
	logger    *slog.Logger
	tracer    trace.Tracer

	maxSteps       int
	maxReflections int
	oracleTimeout  time.Duration
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithPolicy sets the escalation policy. Default: policy.Default().
func WithPolicy(p *policy.Policy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithGate sets the authorization gate. Default: authz.NewGate().
func WithGate(g *authz.Gate) Option {
	return func(e *Engine) {
		if g != nil {
			e.gate = g
		}
	}
}

// WithCollector sets the telemetry sink. Default: telemetry.Nop.
func WithCollector(c telemetry.Collector) Option {
	return func(e *Engine) {
		if c != nil {
			e.collector = c
		}
	}
}

// WithLogger sets the logger for engine operations.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the OpenTelemetry tracer. Default: noop.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithMaxSteps bounds the number of history entries before the run is
// forced to a conclusion. Default: 15.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithMaxReflections bounds how many course changes a run may take.
// Default: 3.
func WithMaxReflections(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxReflections = n
		}
	}
}

// WithOracleTimeout bounds a single oracle round trip. Default: 30s.
func WithOracleTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.oracleTimeout = d
		}
	}
}

// NewEngine creates an Engine. The oracle and registry are required;
// everything else has a default.
func NewEngine(oracle llm.Oracle, registry *action.Registry, opts ...Option) (*Engine, error) {
	if oracle == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "oracle is required")
	}
	if registry == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "registry is required")
	}

	e := &Engine{
		oracle:         oracle,
		registry:       registry,
		policy:         policy.Default(),
		gate:           authz.NewGate(),
		collector:      telemetry.Nop{},
		logger:         slog.Default(),
		tracer:         noop.NewTracerProvider().Tracer("orchestrator"),
		maxSteps:       defaultMaxSteps,
		maxReflections: defaultMaxReflections,
		oracleTimeout:  defaultOracleTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Gate exposes the engine's authorization gate for post-run summaries.
func (e *Engine) Gate() *authz.Gate {
	return e.gate
}

// Run executes the loop for one incident until a terminal condition:
// the oracle finishes, reasoning fails twice in a row, the oracle
// errors or times out, or a safety limit trips. Run always returns a
// state with a plan; oracle faults degrade to a diagnostic plan rather
// than an error.
func (e *Engine) Run(ctx context.Context, problem string) (*RunState, error) {
	if problem == "" {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "problem description is required")
	}

	state := &RunState{
		RunID:     types.NewRunID(),
		Input:     problem,
		StartedAt: time.Now().UTC(),
	}

	ctx, span := e.tracer.Start(ctx, "engine.run", trace.WithAttributes(
		attribute.String("run.id", state.RunID),
	))
	defer span.End()

	e.logger.Info("run started", "run_id", state.RunID, "max_steps", e.maxSteps)

	for !state.Done {
		if err := ctx.Err(); err != nil {
			state.finish(e.synthesizePlan(state, "run cancelled"), time.Now().UTC())
			break
		}

		if len(state.History) >= e.maxSteps {
			e.logger.Warn("step limit reached", "run_id", state.RunID, "steps", len(state.History))
			state.finish(e.synthesizePlan(state, "step limit reached"), time.Now().UTC())
			break
		}

		proposal, thought, err := e.reason(ctx, state)
		if err != nil {
			e.logger.Error("reasoning failed", "run_id", state.RunID, "error", err)
			state.finish(e.synthesizePlan(state, "reasoning unavailable: "+err.Error()), time.Now().UTC())
			break
		}

		switch proposal.Name {
		case SentinelFinish:
			plan := paramString(proposal.Parameters, "final_plan")
			if plan == "" {
				plan = e.synthesizePlan(state, "oracle finished without a stated plan")
			}
			state.appendStep(Step{Thought: thought, Action: *proposal, At: time.Now().UTC()})
			state.finish(plan, time.Now().UTC())

		case SentinelReflect:
			reason := paramString(proposal.Parameters, "reason")
			alternative := paramString(proposal.Parameters, "suggested_alternative")
			e.recordReflection(state, thought, reason, alternative, "")

		default:
			res := e.act(ctx, state, proposal)
			state.appendStep(Step{Thought: thought, Action: *proposal, Observation: &res, At: time.Now().UTC()})
			e.reflect(state, res)
		}
	}

	if state.FinishedAt.IsZero() {
		state.FinishedAt = time.Now().UTC()
	}

	resolved := state.Plan != "" && !state.NeedsAdaptation
	e.collector.RecordRun(state.RunID, resolved, len(state.History), state.FinishedAt.Sub(state.StartedAt))
	span.SetAttributes(
		attribute.Int("run.steps", len(state.History)),
		attribute.Int("run.reflections", state.Reflections()),
	)
	e.logger.Info("run finished",
		"run_id", state.RunID,
		"steps", len(state.History),
		"reflections", state.Reflections(),
	)

	return state, nil
}

func paramString(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	s, _ := params[key].(string)
	return s
}
