// Package policy decides when an action outcome warrants changing
// course. It is a static ordered rule table evaluated first-match-wins;
// evaluation is pure and touches no state outside the result it is
// given.
package policy

import (
	"fmt"

	"github.com/synapse-ops/synapse/internal/action"
)

// Decision is the outcome of evaluating a result against the table.
type Decision struct {
	NeedsAdaptation bool
	Reason          string
	// Alternative suggests the next action to try. Empty when the rule
	// flags a problem without a concrete fallback.
	Alternative string
}

// Predicate tests a result payload.
type Predicate func(res action.Result) bool

// Rule pairs an action name with a predicate. Action "*" matches any
// action. Rules fire in declaration order; the first match wins.
type Rule struct {
	Action      string
	When        Predicate
	Reason      func(res action.Result) string
	Alternative string
}

// Policy is an ordered escalation rule table.
type Policy struct {
	rules []Rule
}

// New builds a policy from the given rules, preserving order.
func New(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// Default returns the built-in escalation table.
func Default() *Policy {
	return New(defaultRules)
}

// Evaluate returns the decision for a result. When no rule matches the
// decision is the zero value: no adaptation needed.
func (p *Policy) Evaluate(res action.Result) Decision {
	for _, rule := range p.rules {
		if rule.Action != "*" && rule.Action != res.Action {
			continue
		}
		if !rule.When(res) {
			continue
		}
		return Decision{
			NeedsAdaptation: true,
			Reason:          rule.Reason(res),
			Alternative:     rule.Alternative,
		}
	}
	return Decision{}
}

// Rules returns the table in evaluation order, for introspection.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

func reason(s string) func(action.Result) string {
	return func(action.Result) string { return s }
}

func isError(res action.Result) bool {
	return res.IsError()
}

func flagFalse(key string) Predicate {
	return func(res action.Result) bool {
		v, ok := res.Bool(key)
		return ok && !v
	}
}

func flagTrue(key string) Predicate {
	return func(res action.Result) bool {
		v, ok := res.Bool(key)
		return ok && v
	}
}

func fieldEquals(key, want string) Predicate {
	return func(res action.Result) bool {
		v, ok := res.String(key)
		return ok && v == want
	}
}

func fieldIn(key string, want ...string) Predicate {
	return func(res action.Result) bool {
		v, ok := res.String(key)
		if !ok {
			return false
		}
		for _, w := range want {
			if v == w {
				return true
			}
		}
		return false
	}
}

func fieldPresent(key string) Predicate {
	return func(res action.Result) bool {
		_, ok := res.Payload[key]
		return ok
	}
}

func confidenceBelow(threshold float64) Predicate {
	return func(res action.Result) bool {
		v, ok := res.Float64("confidence")
		return ok && v > 0 && v < threshold
	}
}

func anyOf(preds ...Predicate) Predicate {
	return func(res action.Result) bool {
		for _, p := range preds {
			if p(res) {
				return true
			}
		}
		return false
	}
}

func errorReason(res action.Result) string {
	msg := res.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("Action %s failed: %s", res.Action, msg)
}
