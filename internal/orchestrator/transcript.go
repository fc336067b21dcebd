package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// renderTranscript flattens the history into the text block shown to
// the oracle on each reasoning cycle.
func renderTranscript(state *RunState) string {
	if len(state.History) == 0 {
		return ""
	}

	var b strings.Builder
	for i, step := range state.History {
		fmt.Fprintf(&b, "Step %d:\n", i+1)
		if step.Thought != "" {
			fmt.Fprintf(&b, "Thought: %s\n", step.Thought)
		}
		fmt.Fprintf(&b, "Action: %s %s\n", step.Action.Name, compactJSON(step.Action.Parameters))
		if step.Observation != nil {
			fmt.Fprintf(&b, "Observation: %s\n", observationLine(step))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func observationLine(step Step) string {
	obs := step.Observation
	if obs.IsError() {
		return fmt.Sprintf("error [%s] %s", obs.ErrorCode, obs.Message)
	}
	return "ok " + compactJSON(obs.Payload)
}

func compactJSON(v map[string]any) string {
	if len(v) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

// Transcript renders the run history as human-readable text, one block
// per step, for CLI output and logs.
func Transcript(state *RunState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\nIncident: %s\n\n", state.RunID, state.Input)
	for i, step := range state.History {
		fmt.Fprintf(&b, "[%d] %s", i+1, step.Action.Name)
		if step.IsReflection() {
			b.WriteString(" (course change)")
		}
		b.WriteString("\n")
		if step.Thought != "" {
			fmt.Fprintf(&b, "    thought: %s\n", step.Thought)
		}
		if step.Observation != nil {
			fmt.Fprintf(&b, "    result:  %s\n", observationLine(step))
		}
	}

	if state.Plan != "" {
		fmt.Fprintf(&b, "\nPlan: %s\n", state.Plan)
	}
	return b.String()
}
