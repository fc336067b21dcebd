package action

import "time"

// Metrics tracks execution statistics for a single registered action.
// The registry owns the instance and guards it with its own lock, so the
// record methods are not independently synchronized.
type Metrics struct {
	TotalCalls     int64         `json:"total_calls"`
	SuccessCalls   int64         `json:"success_calls"`
	FailedCalls    int64         `json:"failed_calls"`
	TotalDuration  time.Duration `json:"total_duration"`
	AvgDuration    time.Duration `json:"avg_duration"`
	LastExecutedAt time.Time     `json:"last_executed_at"`
}

// RecordSuccess records a successful invocation.
func (m *Metrics) RecordSuccess(duration time.Duration) {
	m.TotalCalls++
	m.SuccessCalls++
	m.record(duration)
}

// RecordFailure records a failed invocation.
func (m *Metrics) RecordFailure(duration time.Duration) {
	m.TotalCalls++
	m.FailedCalls++
	m.record(duration)
}

func (m *Metrics) record(duration time.Duration) {
	m.TotalDuration += duration
	m.AvgDuration = m.TotalDuration / time.Duration(m.TotalCalls)
	m.LastExecutedAt = time.Now().UTC()
}

// SuccessRate returns the fraction of invocations that succeeded, or 0
// when the action has never run.
func (m *Metrics) SuccessRate() float64 {
	if m.TotalCalls == 0 {
		return 0
	}
	return float64(m.SuccessCalls) / float64(m.TotalCalls)
}
