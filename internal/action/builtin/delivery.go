package builtin

import (
	"context"
	"errors"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type contactRecipientInput struct {
	RecipientID string
	Message     string
}

func decodeContactRecipient(p action.Params) (contactRecipientInput, error) {
	in := contactRecipientInput{
		RecipientID: p.StringFirst("recipient_id", "recipient"),
		Message:     p.String("message"),
	}
	if in.RecipientID == "" || in.Message == "" {
		return in, errors.New("recipient_id and message required")
	}
	return in, nil
}

func (s *Simulator) contactRecipient(ctx context.Context, in contactRecipientInput) (action.Result, error) {
	reached := s.chance(0.75)
	payload := map[string]any{
		"recipient_id":       in.RecipientID,
		"delivered":          true,
		"contact_successful": reached,
	}
	if reached {
		payload["response"] = pick(s,
			"Please leave at guard",
			"I'll be home in 10 minutes",
			"Leave with my neighbor at #12",
		)
	}

	return action.OK("contact_recipient", payload), nil
}

type safeDropOffInput struct {
	Options []any
}

func decodeSafeDropOff(p action.Params) (safeDropOffInput, error) {
	in := safeDropOffInput{Options: p.List("options")}
	if len(in.Options) == 0 {
		return in, errors.New("options list required")
	}
	return in, nil
}

func (s *Simulator) suggestSafeDropOff(ctx context.Context, in safeDropOffInput) (action.Result, error) {
	available := s.chance(0.8)
	payload := map[string]any{
		"safe_option_available": available,
		"all_options":           in.Options,
	}
	if available {
		payload["selected_option"] = pick(s, in.Options...)
	}

	return action.OK("suggest_safe_drop_off", payload), nil
}

type nearbyLockerInput struct {
	Lat     float64
	Lng     float64
	RadiusM int
}

func decodeNearbyLocker(p action.Params) (nearbyLockerInput, error) {
	lat, lng, ok := p.LatLng()
	if !ok {
		return nearbyLockerInput{}, errors.New("lat and lng required and must be numeric")
	}
	in := nearbyLockerInput{Lat: lat, Lng: lng}
	radius, ok := p.Int("radius_m")
	if !ok || radius <= 0 {
		radius = 2000
	}
	in.RadiusM = radius
	return in, nil
}

func (s *Simulator) findNearbyLocker(ctx context.Context, in nearbyLockerInput) (action.Result, error) {
	found := s.chance(0.8)
	payload := map[string]any{
		"lockers_found": found,
		"query":         map[string]any{"lat": in.Lat, "lng": in.Lng, "radius_m": in.RadiusM},
	}

	if found {
		lockers := []any{
			map[string]any{
				"id":         types.NewID("L"),
				"location":   "Mall Entrance",
				"available":  true,
				"distance_m": s.between(100, in.RadiusM),
			},
			map[string]any{
				"id":         types.NewID("L"),
				"location":   "Gas Station",
				"available":  s.chance(0.5),
				"distance_m": s.between(100, in.RadiusM),
			},
		}
		payload["lockers"] = lockers
		payload["selected"] = lockers[0]
	}

	return action.OK("find_nearby_locker", payload), nil
}

type redeliveryInput struct {
	OrderID string
	Windows []any
}

func decodeRedelivery(p action.Params) (redeliveryInput, error) {
	in := redeliveryInput{
		OrderID: p.StringFirst("order_id", "order"),
		Windows: p.List("windows"),
	}
	if in.OrderID == "" || len(in.Windows) == 0 {
		return in, errors.New("order_id and windows required")
	}
	return in, nil
}

func (s *Simulator) scheduleRedelivery(ctx context.Context, in redeliveryInput) (action.Result, error) {
	scheduled := s.chance(0.85)
	payload := map[string]any{
		"order_id":  in.OrderID,
		"scheduled": scheduled,
	}
	if scheduled {
		payload["window"] = pick(s, in.Windows...)
	}

	return action.OK("schedule_redelivery", payload), nil
}

type contactSenderInput struct {
	SenderID string
	Message  string
}

func decodeContactSender(p action.Params) (contactSenderInput, error) {
	in := contactSenderInput{
		SenderID: p.StringFirst("sender_id", "sender"),
		Message:  p.String("message"),
	}
	if in.SenderID == "" || in.Message == "" {
		return in, errors.New("sender_id and message required")
	}
	return in, nil
}

func (s *Simulator) contactSender(ctx context.Context, in contactSenderInput) (action.Result, error) {
	return action.OK("contact_sender", map[string]any{
		"sender_id":    in.SenderID,
		"acknowledged": s.chance(0.9),
	}), nil
}
