// Package authz gates monetarily and operationally significant actions
// behind an ordered authorization ladder. Classification is pure; the
// Gate tracks request lifecycle and delegates the actual decision to a
// swappable Resolver.
package authz

import "fmt"

// Level is the authorization tier required for an action. Levels are
// ordered: a higher value means a more senior approver. Emergency sits
// outside the monetary ladder and is reached only through safety
// classification.
type Level int

const (
	Automatic Level = iota
	Supervisor
	Manager
	Director
	Executive
	Regulatory
	Emergency
)

var levelNames = map[Level]string{
	Automatic:  "automatic",
	Supervisor: "supervisor",
	Manager:    "manager",
	Director:   "director",
	Executive:  "executive",
	Regulatory: "regulatory",
	Emergency:  "emergency",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a config string to a Level.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return Automatic, fmt.Errorf("unknown authorization level: %q", s)
}

// Status is the lifecycle state of an approval request.
type Status string

const (
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusEscalated         Status = "escalated"
	StatusExpired           Status = "expired"
	StatusEmergencyOverride Status = "emergency_override"
)

// Terminal reports whether the status is final. Terminal requests are
// immutable and live in the gate's history.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired, StatusEmergencyOverride:
		return true
	}
	return false
}

// Granted reports whether the status permits the action to proceed.
func (s Status) Granted() bool {
	return s == StatusApproved || s == StatusEmergencyOverride
}
