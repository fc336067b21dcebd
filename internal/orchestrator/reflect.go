package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/llm"
)

// reflect evaluates the latest observation against the escalation
// policy and records a course change when a rule fires.
func (e *Engine) reflect(state *RunState, res action.Result) {
	decision := e.policy.Evaluate(res)
	if !decision.NeedsAdaptation {
		return
	}
	e.recordReflection(state, "", decision.Reason, decision.Alternative, res.Action)
}

// recordReflection appends a reflection step and arms the adaptation
// hints for the next reasoning cycle. The reflection budget is checked
// first: at the limit the run is forced to a conclusion instead.
func (e *Engine) recordReflection(state *RunState, thought, reason, alternative, fromAction string) {
	if state.Reflections() >= e.maxReflections {
		e.logger.Warn("reflection limit reached",
			"run_id", state.RunID,
			"limit", e.maxReflections,
		)
		state.finish(e.synthesizePlan(state, "reflection limit reached"), time.Now().UTC())
		return
	}

	if thought == "" {
		thought = "REFLECTION: " + reason
	}

	obs := action.OK(SentinelReflect, map[string]any{
		"reason":                reason,
		"suggested_alternative": alternative,
	})
	state.appendStep(Step{
		Thought: thought,
		Action: llm.Proposal{
			Name: SentinelReflect,
			Parameters: map[string]any{
				"reason":                reason,
				"suggested_alternative": alternative,
			},
		},
		Observation: &obs,
		At:          time.Now().UTC(),
	})
	state.adapt(reason, alternative)

	e.collector.RecordReflection(reason, fromAction, alternative)
	e.logger.Info("reflection recorded",
		"run_id", state.RunID,
		"reason", reason,
		"alternative", alternative,
	)
}

// synthesizePlan builds a best-effort conclusion from the last few
// successful actions when the run cannot finish normally.
func (e *Engine) synthesizePlan(state *RunState, cause string) string {
	var completed []string
	for _, step := range state.History {
		if step.IsReflection() || step.Observation == nil || step.Observation.IsError() {
			continue
		}
		completed = append(completed, step.Action.Name)
	}
	if len(completed) > 5 {
		completed = completed[len(completed)-5:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run ended early (%s) after %d steps.", cause, len(state.History))
	if len(completed) > 0 {
		fmt.Fprintf(&b, " Completed actions: %s.", strings.Join(completed, ", "))
	} else {
		b.WriteString(" No actions completed successfully.")
	}
	b.WriteString(" Recommend handing the incident to a human operator for follow-up.")
	return b.String()
}
