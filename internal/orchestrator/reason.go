package orchestrator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/synapse-ops/synapse/internal/llm"
	"github.com/synapse-ops/synapse/internal/types"
)

// correctiveNudge is appended when the previous oracle response could
// not be parsed. The oracle gets exactly one retry per reasoning cycle;
// a second malformed response terminates the run.
const correctiveNudge = "Your previous response did not contain a valid Action JSON. " +
	"Respond ONLY with a Thought line and an Action line containing one JSON object."

// reason asks the oracle for the next proposal given the transcript so
// far.
func (e *Engine) reason(ctx context.Context, state *RunState) (*llm.Proposal, string, error) {
	ctx, span := e.tracer.Start(ctx, "engine.reason")
	defer span.End()

	// Both message sets are built before the adaptation hints are
	// cleared so a corrective retry sees the same reason and suggested
	// alternative the first attempt did.
	messages := e.buildMessages(state, "")
	retryMessages := e.buildMessages(state, correctiveNudge)
	state.clearAdaptation()

	completion, err := e.callOracle(ctx, messages)
	if err != nil {
		return nil, "", err
	}

	proposal, thought, parseErr := llm.ParseResponse(completion.Text)
	if parseErr == nil {
		span.SetAttributes(attribute.String("proposal.name", proposal.Name))
		return proposal, thought, nil
	}

	e.logger.Warn("oracle response unparsable, retrying once", "error", parseErr)

	completion, err = e.callOracle(ctx, retryMessages)
	if err != nil {
		return nil, "", err
	}

	proposal, thought, parseErr = llm.ParseResponse(completion.Text)
	if parseErr != nil {
		return nil, "", types.WrapError(types.ORACLE_PARSE_FAILED,
			"oracle produced no valid proposal in two attempts", parseErr)
	}

	span.SetAttributes(attribute.String("proposal.name", proposal.Name))
	return proposal, thought, nil
}

// callOracle runs the oracle on a worker goroutine so a wall-clock
// budget can be enforced. On timeout the worker is abandoned; the
// cancelled context is its signal to give up.
func (e *Engine) callOracle(ctx context.Context, messages []llm.Message) (*llm.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, e.oracleTimeout)
	defer cancel()

	type outcome struct {
		completion *llm.Completion
		err        error
	}
	done := make(chan outcome, 1)

	start := time.Now()
	go func() {
		completion, err := e.oracle.Complete(ctx, messages)
		done <- outcome{completion, err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, types.WrapError(types.ORACLE_CALL_FAILED, "oracle call failed", out.err)
		}
		e.collector.RecordOracleCall(
			out.completion.Usage.PromptTokens,
			out.completion.Usage.CompletionTokens,
			time.Since(start),
		)
		return out.completion, nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, types.NewError(types.ORACLE_TIMEOUT, "oracle call exceeded timeout")
		}
		return nil, types.WrapError(types.ORACLE_CALL_FAILED, "oracle call cancelled", ctx.Err())
	}
}

// buildMessages assembles the system prompt and the running transcript
// into the conversation handed to the oracle.
func (e *Engine) buildMessages(state *RunState, nudge string) []llm.Message {
	messages := []llm.Message{
		llm.NewSystemMessage(e.systemPrompt()),
	}

	user := "Incident: " + state.Input
	if transcript := renderTranscript(state); transcript != "" {
		user += "\n\nProgress so far:\n" + transcript
	}
	if state.NeedsAdaptation {
		user += "\n\nIMPORTANT: " + state.AdaptationReason
		if state.SuggestedAlternative != "" {
			user += "\nConsider using the action: " + state.SuggestedAlternative
		}
	}
	if nudge != "" {
		user += "\n\n" + nudge
	}

	messages = append(messages, llm.NewUserMessage(user))
	return messages
}
