package authz

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

// Decision is a Resolver's verdict on a pending request.
type Decision struct {
	Approved        bool
	Approver        string
	RejectionReason string
	Conditions      []string
}

// Resolver decides pending approval requests. The default is a seeded
// simulation; a human-in-the-loop integration implements the same
// interface and is swapped in through the Gate options.
type Resolver interface {
	Resolve(ctx context.Context, req *Request) Decision
}

// SimResolver approves or rejects from a seeded probability model of
// value, urgency, and level.
type SimResolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimResolver creates a deterministic simulated approver.
func NewSimResolver(seed int64) *SimResolver {
	return &SimResolver{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimResolver) Resolve(ctx context.Context, req *Request) Decision {
	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	approver := req.Level.String() + "_approver"

	if roll < approvalProbability(req) {
		return Decision{
			Approved:   true,
			Approver:   approver,
			Conditions: approvalConditions(req),
		}
	}

	return Decision{
		Approved:        false,
		Approver:        approver,
		RejectionReason: s.rejectionReason(req),
	}
}

// approvalProbability starts from an 80% base rate and shifts it by
// monetary value, urgency, and level, clamped to [0.1, 0.95].
func approvalProbability(req *Request) float64 {
	p := 0.8

	switch {
	case req.MonetaryValue > 500:
		p -= 0.2
	case req.MonetaryValue > 100:
		p -= 0.1
	}

	switch req.Urgency {
	case "critical":
		p += 0.1
	case "low":
		p -= 0.1
	}

	if req.Level == Executive || req.Level == Regulatory {
		p -= 0.2
	}

	if p < 0.1 {
		return 0.1
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}

func approvalConditions(req *Request) []string {
	var conditions []string
	if req.MonetaryValue > 100 {
		conditions = append(conditions, "Requires receipt documentation")
	}
	if strings.Contains(strings.ToLower(req.ActionType), "refund") {
		conditions = append(conditions, "Customer satisfaction survey required")
	}
	return conditions
}

func (s *SimResolver) rejectionReason(req *Request) string {
	reasons := []string{
		"Insufficient justification provided",
		"Exceeds authorized spending limits",
		"Alternative lower-cost solution available",
		"Requires additional documentation",
		"Policy violation detected",
		"Needs secondary approval",
		"Insufficient evidence of customer fault",
	}
	if req.MonetaryValue > 100 {
		reasons = append(reasons,
			"Amount exceeds threshold for this scenario type",
			"Requires detailed cost-benefit analysis",
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return reasons[s.rng.Intn(len(reasons))]
}

// ApproveAll is a Resolver that approves everything, for tests and
// dry runs.
type ApproveAll struct{}

func (ApproveAll) Resolve(ctx context.Context, req *Request) Decision {
	return Decision{Approved: true, Approver: req.Level.String() + "_approver"}
}

// RejectAll is a Resolver that rejects everything.
type RejectAll struct {
	Reason string
}

func (r RejectAll) Resolve(ctx context.Context, req *Request) Decision {
	reason := r.Reason
	if reason == "" {
		reason = "Rejected by policy"
	}
	return Decision{Approved: false, Approver: req.Level.String() + "_approver", RejectionReason: reason}
}
