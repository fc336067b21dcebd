package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type supportTicketInput struct {
	Issue    map[string]any
	Priority string
}

func decodeSupportTicket(p action.Params) (supportTicketInput, error) {
	in := supportTicketInput{
		Issue:    p.Map("issue"),
		Priority: p.String("priority"),
	}
	if in.Issue == nil {
		return in, errors.New("issue required")
	}
	if in.Priority == "" {
		in.Priority = "high"
	}
	return in, nil
}

func (s *Simulator) contactSupportLive(ctx context.Context, in supportTicketInput) (action.Result, error) {
	return action.OK("contact_support_live", map[string]any{
		"ticket_id":   types.NewID("TKT"),
		"issue":       in.Issue,
		"assigned_to": "support_agent_1",
		"escalated":   true,
		"priority":    in.Priority,
	}), nil
}

type escalateInput struct {
	IssueType   string
	Description string
	Urgency     string
}

func decodeEscalate(p action.Params) (escalateInput, error) {
	in := escalateInput{
		IssueType:   p.String("issue_type"),
		Description: p.String("description"),
		Urgency:     p.String("urgency"),
	}
	if in.IssueType == "" || in.Description == "" {
		return in, errors.New("issue_type and description required")
	}
	switch in.Urgency {
	case "low", "medium", "high", "critical":
	default:
		in.Urgency = "medium"
	}
	return in, nil
}

func (s *Simulator) escalateToManagement(ctx context.Context, in escalateInput) (action.Result, error) {
	return action.OK("escalate_to_management", map[string]any{
		"escalation_id":              types.NewID("escalation"),
		"issue_type":                 in.IssueType,
		"description":                in.Description,
		"urgency":                    in.Urgency,
		"escalated":                  true,
		"assigned_to":                fmt.Sprintf("manager_%s", pick(s, "ops", "customer", "logistics")),
		"estimated_resolution_hours": pick(s, 2, 4, 8, 24),
	}), nil
}
