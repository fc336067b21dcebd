package orchestrator

import (
	"time"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/llm"
)

// Control sentinels the oracle may propose in place of a catalog
// action.
const (
	// SentinelFinish ends the run with a final plan.
	SentinelFinish = "finish"

	// SentinelReflect asks for a reasoning pause and course change.
	SentinelReflect = "reflect"
)

// Step is one entry in a run's audit trail: what the oracle thought,
// what it proposed, and what happened. Control steps (finish, reflect)
// carry a synthetic observation.
type Step struct {
	Thought     string         `json:"thought,omitempty"`
	Action      llm.Proposal   `json:"action"`
	Observation *action.Result `json:"observation,omitempty"`
	At          time.Time      `json:"at"`
}

// IsReflection reports whether the step records a course change rather
// than an executed action.
func (s Step) IsReflection() bool {
	return s.Action.Name == SentinelReflect
}

// RunState is the full state of one problem-solving run. History is
// append-only: the engine only ever adds steps, and Done never goes
// back to false once set.
type RunState struct {
	RunID string `json:"run_id"`

	// Input is the incident description. Immutable after creation.
	Input string `json:"input"`

	History []Step `json:"history"`

	// Plan is set exactly once, when the run completes.
	Plan string `json:"plan,omitempty"`
	Done bool   `json:"done"`

	// Adaptation hints carried from the last reflection into the next
	// reasoning cycle.
	NeedsAdaptation      bool   `json:"needs_adaptation"`
	AdaptationReason     string `json:"adaptation_reason,omitempty"`
	SuggestedAlternative string `json:"suggested_alternative,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Reflections counts the course changes recorded so far.
func (s *RunState) Reflections() int {
	n := 0
	for _, step := range s.History {
		if step.IsReflection() {
			n++
		}
	}
	return n
}

// LastObservation returns the most recent action result, or nil when
// nothing has executed yet.
func (s *RunState) LastObservation() *action.Result {
	for i := len(s.History) - 1; i >= 0; i-- {
		if !s.History[i].IsReflection() && s.History[i].Observation != nil {
			return s.History[i].Observation
		}
	}
	return nil
}

// appendStep adds to the audit trail.
func (s *RunState) appendStep(step Step) {
	s.History = append(s.History, step)
}

// finish marks the run done with the given plan. Subsequent calls are
// ignored so Done stays monotonic and Plan is written once.
func (s *RunState) finish(plan string, at time.Time) {
	if s.Done {
		return
	}
	s.Done = true
	s.Plan = plan
	s.FinishedAt = at
}

// adapt records the hints the next reasoning cycle should honor.
func (s *RunState) adapt(reason, alternative string) {
	s.NeedsAdaptation = true
	s.AdaptationReason = reason
	s.SuggestedAlternative = alternative
}

// clearAdaptation resets the hints once they have been surfaced to the
// oracle.
func (s *RunState) clearAdaptation() {
	s.NeedsAdaptation = false
	s.AdaptationReason = ""
	s.SuggestedAlternative = ""
}
