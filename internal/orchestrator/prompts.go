package orchestrator

import (
	"fmt"
	"strings"
)

// systemPrompt describes the loop contract to the oracle: one action
// per turn, chosen from the catalog, expressed as Thought plus Action
// JSON.
func (e *Engine) systemPrompt() string {
	var b strings.Builder

	b.WriteString(`You are an autonomous logistics coordinator resolving last-mile delivery incidents.

Work step by step. Each turn, pick exactly ONE action and respond in this format:

Thought: <one or two sentences of reasoning>
Action: {"tool_name": "<action_name>", "parameters": {...}}

Available actions:
`)

	for _, d := range e.registry.Describe() {
		fmt.Fprintf(&b, "- %s: %s\n", d.Name, d.Description)
	}

	b.WriteString(`
Control actions:
- finish: end the run. Parameters: {"final_plan": "<summary of the resolution>"}
- reflect: pause and change approach. Parameters: {"reason": "...", "suggested_alternative": "<action_name>"}

Rules:
- Use only the actions listed above.
- Monetary actions (vouchers, refunds) carry an "amount" parameter and may be held for approval; if an action is blocked, adapt rather than repeating it.
- When the incident is resolved, or nothing further can be done, respond with the finish action and a concrete final plan.`)

	return b.String()
}
