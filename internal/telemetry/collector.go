// Package telemetry collects run, action, and oracle statistics. The
// Collector is an explicit dependency handed to the engine rather than
// a process-wide singleton, so parallel runs and tests each get their
// own counters.
package telemetry

import (
	"sort"
	"sync"
	"time"
)

// Collector receives engine events. Implementations must be safe for
// concurrent use.
type Collector interface {
	// RecordRun records a completed run and whether it reached a plan.
	RecordRun(runID string, resolved bool, steps int, duration time.Duration)

	// RecordAction records one registry invocation.
	RecordAction(name string, success bool, duration time.Duration)

	// RecordReflection records a course change and the suggested
	// alternative, if any.
	RecordReflection(reason, fromAction, alternative string)

	// RecordOracleCall records one oracle round trip.
	RecordOracleCall(promptTokens, completionTokens int, duration time.Duration)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRun(string, bool, int, time.Duration)   {}
func (Nop) RecordAction(string, bool, time.Duration)     {}
func (Nop) RecordReflection(string, string, string)      {}
func (Nop) RecordOracleCall(int, int, time.Duration)     {}

// ActionStats aggregates invocations of one action.
type ActionStats struct {
	Name          string        `json:"name"`
	Calls         int           `json:"calls"`
	Successes     int           `json:"successes"`
	TotalDuration time.Duration `json:"total_duration"`
}

// SuccessRate returns the fraction of calls that succeeded.
func (a ActionStats) SuccessRate() float64 {
	if a.Calls == 0 {
		return 0
	}
	return float64(a.Successes) / float64(a.Calls)
}

// Stats is a point-in-time snapshot of collected counters.
type Stats struct {
	Runs             int           `json:"runs"`
	ResolvedRuns     int           `json:"resolved_runs"`
	TotalSteps       int           `json:"total_steps"`
	TotalRunTime     time.Duration `json:"total_run_time"`
	Reflections      int           `json:"reflections"`
	OracleCalls      int           `json:"oracle_calls"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	OracleTime       time.Duration `json:"oracle_time"`
	Actions          []ActionStats `json:"actions"`
}

// InMemory is the default Collector.
type InMemory struct {
	mu      sync.Mutex
	stats   Stats
	actions map[string]*ActionStats
}

// NewInMemory creates an empty in-memory collector.
func NewInMemory() *InMemory {
	return &InMemory{actions: make(map[string]*ActionStats)}
}

func (c *InMemory) RecordRun(runID string, resolved bool, steps int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Runs++
	if resolved {
		c.stats.ResolvedRuns++
	}
	c.stats.TotalSteps += steps
	c.stats.TotalRunTime += duration
}

func (c *InMemory) RecordAction(name string, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.actions[name]
	if !ok {
		a = &ActionStats{Name: name}
		c.actions[name] = a
	}
	a.Calls++
	if success {
		a.Successes++
	}
	a.TotalDuration += duration
}

func (c *InMemory) RecordReflection(reason, fromAction, alternative string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Reflections++
}

func (c *InMemory) RecordOracleCall(promptTokens, completionTokens int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.OracleCalls++
	c.stats.PromptTokens += promptTokens
	c.stats.CompletionTokens += completionTokens
	c.stats.OracleTime += duration
}

// Snapshot returns a copy of the counters with actions sorted by name.
func (c *InMemory) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.stats
	out.Actions = make([]ActionStats, 0, len(c.actions))
	for _, a := range c.actions {
		out.Actions = append(out.Actions, *a)
	}
	sort.Slice(out.Actions, func(i, j int) bool { return out.Actions[i].Name < out.Actions[j].Name })
	return out
}
