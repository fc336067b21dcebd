package action

import (
	"time"

	"github.com/synapse-ops/synapse/internal/types"
)

// Status indicates whether an action execution succeeded.
// Business-level failures (recipient did not answer, no lockers found)
// are reported as StatusOK with a false flag in the payload; StatusError
// is reserved for parameter, internal, and authorization faults.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Result is the uniform envelope every action handler returns.
// Every invocation yields exactly one Result; handlers never panic out
// of the registry; internal faults are captured and converted to
// StatusError with code ACTION_INTERNAL.
type Result struct {
	Action    string          `json:"action"`
	Status    Status          `json:"status"`
	ErrorCode types.ErrorCode `json:"error_code,omitempty"`
	Message   string          `json:"message,omitempty"`
	Payload   map[string]any  `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// OK builds a success result with the given payload.
func OK(action string, payload map[string]any) Result {
	if payload == nil {
		payload = map[string]any{}
	}
	return Result{
		Action:    action,
		Status:    StatusOK,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Error builds a failure result with a structured error code.
func Error(action string, code types.ErrorCode, message string) Result {
	return Result{
		Action:    action,
		Status:    StatusError,
		ErrorCode: code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// IsError reports whether the result carries an error status.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Bool returns the named payload field as a bool.
// The second return is false when the field is absent or not a bool.
func (r Result) Bool(key string) (bool, bool) {
	v, ok := r.Payload[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Float64 returns the named payload field as a float64, accepting any
// numeric representation that JSON round-trips produce.
func (r Result) Float64(key string) (float64, bool) {
	v, ok := r.Payload[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// String returns the named payload field as a string.
func (r Result) String(key string) (string, bool) {
	v, ok := r.Payload[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
