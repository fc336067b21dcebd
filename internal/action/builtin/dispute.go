package builtin

import (
	"context"
	"errors"
	"math"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type collectEvidenceInput struct {
	OrderID   string
	AskPhotos bool
}

func decodeCollectEvidence(p action.Params) (collectEvidenceInput, error) {
	in := collectEvidenceInput{
		OrderID:   p.StringFirst("order_id", "order"),
		AskPhotos: p.Bool("ask_photos", true),
	}
	if in.OrderID == "" {
		return in, errors.New("order_id required")
	}
	return in, nil
}

func (s *Simulator) collectEvidence(ctx context.Context, in collectEvidenceInput) (action.Result, error) {
	collected := s.chance(0.9)
	payload := map[string]any{
		"order_id":           in.OrderID,
		"evidence_collected": collected,
		"requests_sent": map[string]any{
			"customer": in.AskPhotos,
			"driver":   in.AskPhotos,
		},
	}
	if collected {
		payload["evidence_id"] = types.NewID("e")
	}

	return action.OK("collect_evidence", payload), nil
}

type analyzeEvidenceInput struct {
	EvidenceID string
}

func decodeAnalyzeEvidence(p action.Params) (analyzeEvidenceInput, error) {
	in := analyzeEvidenceInput{EvidenceID: p.StringFirst("evidence_id", "evidence")}
	if in.EvidenceID == "" {
		return in, errors.New("evidence_id required")
	}
	return in, nil
}

func (s *Simulator) analyzeEvidence(ctx context.Context, in analyzeEvidenceInput) (action.Result, error) {
	var fault string
	var confidence float64
	switch {
	case s.chance(0.6):
		fault = "merchant"
		confidence = 0.6 + s.jitter(0.35)
	case s.chance(0.6):
		fault = "driver"
		confidence = 0.5 + s.jitter(0.45)
	default:
		fault = "unknown"
		confidence = 0.3 + s.jitter(0.3)
	}

	return action.OK("analyze_evidence", map[string]any{
		"evidence_id": in.EvidenceID,
		"fault":       fault,
		"confidence":  math.Round(confidence*100) / 100,
		"explanation": "Analysis based on submitted photos and questionnaire responses",
	}), nil
}
