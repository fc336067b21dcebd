package builtin

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type merchantStatusInput struct {
	MerchantID string
}

func decodeMerchantStatus(p action.Params) (merchantStatusInput, error) {
	in := merchantStatusInput{MerchantID: p.StringFirst("merchant_id", "merchant")}
	if in.MerchantID == "" {
		return in, errors.New("merchant_id required")
	}
	return in, nil
}

func (s *Simulator) getMerchantStatus(ctx context.Context, in merchantStatusInput) (action.Result, error) {
	prepTime := pick(s, 15, 20, 25, 30, 40)
	return action.OK("get_merchant_status", map[string]any{
		"merchant_id":    in.MerchantID,
		"prep_time_mins": prepTime,
		"open":           prepTime < 35,
		"estimated_ready_at": s.now().Add(time.Duration(prepTime) * time.Minute).
			Format(time.RFC3339),
		"stock": map[string]any{
			"pizza":  s.chance(0.9),
			"burger": s.chance(0.7),
			"soda":   true,
		},
	}), nil
}

type nearbyMerchantsInput struct {
	Lat     float64
	Lng     float64
	RadiusM int
	Cuisine string
}

func decodeNearbyMerchants(p action.Params) (nearbyMerchantsInput, error) {
	lat, lng, ok := p.LatLng()
	if !ok {
		return nearbyMerchantsInput{}, errors.New("lat and lng required and must be numeric")
	}
	in := nearbyMerchantsInput{Lat: lat, Lng: lng, Cuisine: p.String("cuisine")}
	radius, ok := p.Int("radius_m")
	if !ok || radius <= 0 {
		radius = 1000
	}
	in.RadiusM = radius
	return in, nil
}

func (s *Simulator) getNearbyMerchants(ctx context.Context, in nearbyMerchantsInput) (action.Result, error) {
	names := []string{"Pizza Palace", "Burger Bros", "Noodle House", "Coffee Corner", "Sushi Spot"}
	merchants := make([]any, 0, 3)
	for i := 0; i < 3; i++ {
		merchants = append(merchants, map[string]any{
			"id":             types.NewID("M"),
			"name":           pick(s, names...),
			"prep_time_mins": pick(s, 10, 15, 20, 25),
			"rating":         math.Round((3.5+s.jitter(1.5))*100) / 100,
			"distance_m":     s.between(50, in.RadiusM),
		})
	}

	return action.OK("get_nearby_merchants", map[string]any{
		"merchants": merchants,
		"query": map[string]any{
			"lat":      in.Lat,
			"lng":      in.Lng,
			"radius_m": in.RadiusM,
			"cuisine":  in.Cuisine,
		},
	}), nil
}

type contactMerchantInput struct {
	MerchantID string
	Message    string
}

func decodeContactMerchant(p action.Params) (contactMerchantInput, error) {
	in := contactMerchantInput{
		MerchantID: p.StringFirst("merchant_id", "merchant"),
		Message:    p.String("message"),
	}
	if in.MerchantID == "" || in.Message == "" {
		return in, errors.New("merchant_id and message required")
	}
	return in, nil
}

func (s *Simulator) contactMerchant(ctx context.Context, in contactMerchantInput) (action.Result, error) {
	available := s.chance(0.9)
	response := "Acknowledged"
	if !available {
		response = "No response"
	}

	return action.OK("contact_merchant", map[string]any{
		"merchant_id":        in.MerchantID,
		"merchant_available": available,
		"response":           response,
	}), nil
}

type substituteInput struct {
	OrderID     string
	Substitutes []any
}

func decodeSubstitute(p action.Params) (substituteInput, error) {
	in := substituteInput{
		OrderID:     p.StringFirst("order_id", "order"),
		Substitutes: p.List("substitute_items"),
	}
	if in.OrderID == "" || in.Substitutes == nil {
		return in, errors.New("order_id and substitute_items required")
	}
	return in, nil
}

func (s *Simulator) proposeSubstitute(ctx context.Context, in substituteInput) (action.Result, error) {
	return action.OK("propose_substitute", map[string]any{
		"order_id":               in.OrderID,
		"substitutes":            in.Substitutes,
		"requested_confirmation": true,
	}), nil
}

type packagingFeedbackInput struct {
	MerchantID string
	Feedback   map[string]any
}

func decodePackagingFeedback(p action.Params) (packagingFeedbackInput, error) {
	in := packagingFeedbackInput{
		MerchantID: p.StringFirst("merchant_id", "merchant"),
		Feedback:   p.Map("feedback"),
	}
	if in.MerchantID == "" || in.Feedback == nil {
		return in, errors.New("merchant_id and feedback required")
	}
	return in, nil
}

func (s *Simulator) logMerchantPackagingFeedback(ctx context.Context, in packagingFeedbackInput) (action.Result, error) {
	return action.OK("log_merchant_packaging_feedback", map[string]any{
		"merchant_id":  in.MerchantID,
		"logged":       true,
		"feedback_ref": types.NewID("fb"),
	}), nil
}

type holdOrderInput struct {
	OrderID     string
	MerchantID  string
	HoldMinutes int
}

func decodeHoldOrder(p action.Params) (holdOrderInput, error) {
	in := holdOrderInput{
		OrderID:    p.StringFirst("order_id", "order"),
		MerchantID: p.StringFirst("merchant_id", "merchant"),
	}
	if in.OrderID == "" || in.MerchantID == "" {
		return in, errors.New("order_id and merchant_id required")
	}
	holdMinutes, ok := p.Int("hold_minutes")
	if !ok || holdMinutes <= 0 {
		holdMinutes = 15
	}
	in.HoldMinutes = holdMinutes
	return in, nil
}

func (s *Simulator) holdOrderWithMerchant(ctx context.Context, in holdOrderInput) (action.Result, error) {
	held := s.chance(0.9)
	payload := map[string]any{
		"order_id":    in.OrderID,
		"merchant_id": in.MerchantID,
		"held":        held,
	}
	if held {
		payload["held_until"] = s.now().Add(time.Duration(in.HoldMinutes) * time.Minute).
			Format(time.RFC3339)
	}

	return action.OK("hold_order_with_merchant", payload), nil
}
