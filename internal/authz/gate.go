package authz

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/synapse-ops/synapse/internal/types"
)

// safetyKeywords escalate straight to the emergency tier.
var safetyKeywords = []string{"accident", "injury", "emergency", "threat", "danger", "assault"}

// legalKeywords route to regulatory review regardless of amount.
var legalKeywords = []string{"lawsuit", "legal", "court", "police", "fraud", "theft", "compliance"}

// defaultFloors maps each tier to the monetary value above which it is
// required. A value picks the highest tier whose floor it exceeds; any
// positive value needs at least supervisor sign-off.
var defaultFloors = map[Level]float64{
	Supervisor: 25,
	Manager:    100,
	Director:   500,
	Executive:  2000,
}

// defaultAllowlist holds routine operations that never need approval.
var defaultAllowlist = []string{
	"standard_delivery_delay_notification",
	"traffic_rerouting",
	"merchant_status_check",
	"customer_notification",
}

// Gate classifies actions into authorization tiers and tracks approval
// requests through their lifecycle.
type Gate struct {
	mu              sync.Mutex
	floors          map[Level]float64
	allowlist       map[string]struct{}
	resolver        Resolver
	logger          *slog.Logger
	tracer          trace.Tracer
	now             func() time.Time
	overrideEnabled bool

	pending map[string]*Request
	history []*Request
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithFloors replaces the monetary tier floors.
func WithFloors(floors map[Level]float64) GateOption {
	return func(g *Gate) {
		if len(floors) > 0 {
			g.floors = floors
		}
	}
}

// WithAllowlist replaces the auto-approval allowlist.
func WithAllowlist(actions []string) GateOption {
	return func(g *Gate) {
		g.allowlist = make(map[string]struct{}, len(actions))
		for _, a := range actions {
			g.allowlist[a] = struct{}{}
		}
	}
}

// WithResolver replaces the approval decision source.
func WithResolver(r Resolver) GateOption {
	return func(g *Gate) {
		if r != nil {
			g.resolver = r
		}
	}
}

// WithGateLogger sets the logger for approval lifecycle events.
func WithGateLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithGateTracer sets the OpenTelemetry tracer. Default: noop.
func WithGateTracer(tracer trace.Tracer) GateOption {
	return func(g *Gate) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// WithGateClock overrides the time source, used by expiry tests.
func WithGateClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithEmergencyOverride toggles the emergency override path.
func WithEmergencyOverride(enabled bool) GateOption {
	return func(g *Gate) { g.overrideEnabled = enabled }
}

// NewGate creates a Gate with the default floors, allowlist, and a
// seeded simulated resolver.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		floors:          defaultFloors,
		resolver:        NewSimResolver(time.Now().UnixNano()),
		logger:          slog.Default(),
		tracer:          noop.NewTracerProvider().Tracer("authz"),
		now:             func() time.Time { return time.Now().UTC() },
		overrideEnabled: true,
		pending:         make(map[string]*Request),
	}
	WithAllowlist(defaultAllowlist)(g)

	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Classify determines whether an action needs approval and at what
// tier. It is pure: repeated calls with the same inputs give the same
// answer and nothing is recorded.
//
// Order: allowlist, safety keywords, legal keywords, high-value
// delivery context, then monetary floors.
func (g *Gate) Classify(actionType string, value float64, reqCtx map[string]any) (bool, Level) {
	if _, ok := g.allowlist[actionType]; ok {
		return false, Automatic
	}

	haystack := strings.ToLower(actionType + " " + fmt.Sprint(reqCtx))
	for _, kw := range safetyKeywords {
		if strings.Contains(haystack, kw) {
			return true, Emergency
		}
	}
	for _, kw := range legalKeywords {
		if strings.Contains(haystack, kw) {
			return true, Regulatory
		}
	}

	if dv, ok := toFloat(reqCtx["delivery_value"]); ok && dv > 1000 {
		return true, Manager
	}

	if value <= 0 {
		return false, Automatic
	}

	level := Supervisor
	for _, l := range []Level{Manager, Director, Executive} {
		if value > g.floors[l] {
			level = l
		}
	}
	return true, level
}

// RequestApproval classifies the action and creates a request. Actions
// classified automatic come back already approved with approver
// "system_auto"; everything else is pending with an expiry window.
func (g *Gate) RequestApproval(actionType, description string, value float64, reqCtx map[string]any, urgency string) *Request {
	required, level := g.Classify(actionType, value, reqCtx)
	now := g.now()

	if !required {
		req := &Request{
			ID:            types.NewID("auto"),
			ActionType:    actionType,
			Description:   description,
			MonetaryValue: value,
			Level:         level,
			Requester:     "synapse_engine",
			Urgency:       urgency,
			Context:       reqCtx,
			CreatedAt:     now,
			Status:        StatusApproved,
			Approver:      "system_auto",
			DecidedAt:     now,
		}
		g.mu.Lock()
		g.history = append(g.history, req)
		g.mu.Unlock()
		return req
	}

	req := &Request{
		ID:            types.NewID("req"),
		ActionType:    actionType,
		Description:   description,
		MonetaryValue: value,
		Level:         level,
		Requester:     "synapse_engine",
		Urgency:       urgency,
		Context:       reqCtx,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(expiryHours(urgency, level) * float64(time.Hour))),
		Status:        StatusPending,
	}

	g.mu.Lock()
	g.pending[req.ID] = req
	g.mu.Unlock()

	g.logger.Debug("approval requested",
		"request_id", req.ID,
		"action", actionType,
		"value", value,
		"level", level.String(),
		"urgency", urgency,
	)

	return req
}

// Resolve decides a pending request through the resolver and moves it
// to history. An already-terminal request is returned unchanged; an
// expired window resolves to StatusExpired without consulting the
// resolver.
func (g *Gate) Resolve(ctx context.Context, req *Request) *Request {
	if req.Status.Terminal() {
		return req
	}

	now := g.now()
	if req.Expired(now) {
		req.Status = StatusExpired
		req.DecidedAt = now
		g.retire(req)
		g.logger.Info("approval expired", "request_id", req.ID, "action", req.ActionType)
		return req
	}

	decision := g.resolver.Resolve(ctx, req)
	req.Approver = decision.Approver
	req.DecidedAt = now
	if decision.Approved {
		req.Status = StatusApproved
		req.Conditions = append(req.Conditions, decision.Conditions...)
	} else {
		req.Status = StatusRejected
		req.RejectionReason = decision.RejectionReason
	}
	g.retire(req)

	g.logger.Info("approval decided",
		"request_id", req.ID,
		"action", req.ActionType,
		"status", string(req.Status),
		"approver", req.Approver,
	)

	return req
}

// Authorize runs the full request-and-resolve cycle for one action.
func (g *Gate) Authorize(ctx context.Context, actionType, description string, value float64, reqCtx map[string]any, urgency string) *Request {
	ctx, span := g.tracer.Start(ctx, "gate.authorize", trace.WithAttributes(
		attribute.String("authz.action", actionType),
		attribute.Float64("authz.value", value),
	))
	defer span.End()

	req := g.RequestApproval(actionType, description, value, reqCtx, urgency)
	if !req.Status.Terminal() {
		req = g.Resolve(ctx, req)
	}

	span.SetAttributes(
		attribute.String("authz.level", req.Level.String()),
		attribute.String("authz.status", string(req.Status)),
	)
	return req
}

// CheckEmergencyOverride reports whether the override path applies to
// the request.
func (g *Gate) CheckEmergencyOverride(req *Request) bool {
	if !g.overrideEnabled {
		return false
	}
	return req.Urgency == "critical" ||
		strings.Contains(strings.ToLower(req.ActionType), "emergency") ||
		strings.Contains(strings.ToLower(req.Description), "safety") ||
		req.Level == Emergency
}

// ApplyEmergencyOverride bypasses the approval workflow. The override
// is written to the audit log before the request is mutated so a crash
// mid-override still leaves a trace.
func (g *Gate) ApplyEmergencyOverride(req *Request, reason string) (*Request, error) {
	if !g.CheckEmergencyOverride(req) {
		return req, types.NewError(types.APPROVAL_DENIED, "emergency override not available for this request")
	}
	if req.Status.Terminal() {
		return req, types.NewError(types.APPROVAL_DENIED, "request already decided")
	}

	g.logger.Warn("emergency override applied",
		"request_id", req.ID,
		"action", req.ActionType,
		"monetary_value", req.MonetaryValue,
		"urgency", req.Urgency,
		"override_reason", reason,
	)

	req.Status = StatusEmergencyOverride
	req.Approver = "emergency_override_system"
	req.DecidedAt = g.now()
	req.Conditions = append(req.Conditions,
		"Emergency override: "+reason,
		"Post-incident review required",
	)
	g.retire(req)

	return req, nil
}

// Pending returns the open requests sorted by creation time.
func (g *Gate) Pending() []*Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*Request, 0, len(g.pending))
	for _, req := range g.pending {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// History returns decided requests in decision order.
func (g *Gate) History() []*Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*Request, len(g.history))
	copy(out, g.history)
	return out
}

// Summary aggregates request counts and monetary totals.
type Summary struct {
	TotalRequests      int     `json:"total_requests"`
	Approved           int     `json:"approved"`
	Rejected           int     `json:"rejected"`
	Pending            int     `json:"pending"`
	EmergencyOverrides int     `json:"emergency_overrides"`
	ApprovalRate       float64 `json:"approval_rate"`
	TotalMonetaryValue float64 `json:"total_monetary_value"`
}

// Summarize reports the gate's request statistics.
func (g *Gate) Summarize() Summary {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Summary{
		TotalRequests: len(g.history) + len(g.pending),
		Pending:       len(g.pending),
	}
	for _, req := range g.history {
		s.TotalMonetaryValue += req.MonetaryValue
		switch req.Status {
		case StatusApproved:
			s.Approved++
		case StatusRejected:
			s.Rejected++
		case StatusEmergencyOverride:
			s.EmergencyOverrides++
		}
	}
	if len(g.history) > 0 {
		s.ApprovalRate = float64(s.Approved) / float64(len(g.history))
	}
	return s
}

// retire moves a request from pending to history.
func (g *Gate) retire(req *Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, req.ID)
	g.history = append(g.history, req)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
