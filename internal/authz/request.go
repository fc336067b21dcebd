package authz

import "time"

// Request is one approval request flowing through the gate. Once its
// status turns terminal the gate moves it to history and never mutates
// it again.
type Request struct {
	ID            string         `json:"request_id"`
	ActionType    string         `json:"action_type"`
	Description   string         `json:"description"`
	MonetaryValue float64        `json:"monetary_value"`
	Level         Level          `json:"authorization_level"`
	Requester     string         `json:"requester"`
	Urgency       string         `json:"urgency"`
	Context       map[string]any `json:"context,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`

	Status          Status    `json:"status"`
	Approver        string    `json:"approver,omitempty"`
	DecidedAt       time.Time `json:"decided_at,omitempty"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	Conditions      []string  `json:"conditions,omitempty"`
}

// Expired reports whether the request's approval window has passed.
func (r *Request) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// expiryHours gives the approval window in hours for an urgency and
// level pairing. Higher tiers get more time; emergencies get less.
func expiryHours(urgency string, level Level) float64 {
	base := map[string]float64{
		"critical": 1,
		"high":     4,
		"medium":   24,
		"low":      72,
	}
	multiplier := map[Level]float64{
		Supervisor: 1.0,
		Manager:    1.5,
		Director:   2.0,
		Executive:  3.0,
		Regulatory: 5.0,
		Emergency:  0.5,
	}

	hours, ok := base[urgency]
	if !ok {
		hours = 24
	}
	m, ok := multiplier[level]
	if !ok {
		m = 1.0
	}
	return hours * m
}
