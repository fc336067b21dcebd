package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/llm"
	"github.com/synapse-ops/synapse/internal/types"
)

// act routes a proposal through the authorization gate and the
// registry. It always returns a result; gate denials come back as
// business errors so the loop can adapt instead of aborting.
func (e *Engine) act(ctx context.Context, state *RunState, proposal *llm.Proposal) action.Result {
	ctx, span := e.tracer.Start(ctx, "engine.act", trace.WithAttributes(
		attribute.String("action.name", proposal.Name),
	))
	defer span.End()

	// The bag is copied so gate annotations never leak back into the
	// proposal recorded in History.
	params := make(action.Params, len(proposal.Parameters))
	for k, v := range proposal.Parameters {
		params[k] = v
	}

	if res, intercepted := e.authorize(ctx, state, proposal.Name, params); intercepted {
		return res
	}

	start := time.Now()
	res := e.registry.Invoke(ctx, proposal.Name, params)
	e.collector.RecordAction(proposal.Name, !res.IsError(), time.Since(start))

	return res
}

// authorize intercepts monetarily significant proposals. When approval
// is granted the parameter bag is annotated so the handler can
// disburse; when it is denied or expired an error result is returned
// in place of execution.
func (e *Engine) authorize(ctx context.Context, state *RunState, name string, params action.Params) (action.Result, bool) {
	amount, ok := params.Float64("amount")
	if !ok || amount <= 0 {
		return action.Result{}, false
	}

	required, _ := e.gate.Classify(name, amount, params)
	if !required {
		return action.Result{}, false
	}

	urgency := params.String("urgency")
	if urgency == "" {
		urgency = "medium"
	}

	description := fmt.Sprintf("%s for %.2f requested during run %s", name, amount, state.RunID)
	req := e.gate.Authorize(ctx, name, description, amount, params, urgency)

	if req.Status.Granted() {
		params["approved"] = true
		return action.Result{}, false
	}

	message := fmt.Sprintf("approval %s for %s", req.Status, name)
	if req.RejectionReason != "" {
		message += ": " + req.RejectionReason
	}

	e.logger.Info("action blocked by authorization",
		"action", name,
		"request_id", req.ID,
		"status", string(req.Status),
	)
	e.collector.RecordAction(name, false, 0)

	return action.Result{
		Action:    name,
		Status:    action.StatusError,
		ErrorCode: types.APPROVAL_DENIED,
		Message:   message,
		Payload: map[string]any{
			"requires_approval":   true,
			"approval_status":     string(req.Status),
			"authorization_level": req.Level.String(),
			"request_id":          req.ID,
		},
		Timestamp: time.Now().UTC(),
	}, true
}
