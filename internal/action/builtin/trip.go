package builtin

import (
	"context"
	"errors"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type tripPathInput struct {
	TripID string
}

func decodeTripPath(p action.Params) (tripPathInput, error) {
	in := tripPathInput{TripID: p.StringFirst("trip_id", "trip")}
	if in.TripID == "" {
		return in, errors.New("trip_id required")
	}
	return in, nil
}

func (s *Simulator) locateTripPath(ctx context.Context, in tripPathInput) (action.Result, error) {
	found := s.chance(0.9)
	payload := map[string]any{
		"trip_id":    in.TripID,
		"trip_found": found,
	}

	if found {
		path := make([]any, 0, 3)
		for i := 0; i < 3; i++ {
			path = append(path, map[string]any{
				"lat": 1.23 + float64(i)*0.001,
				"lng": 103.8 + float64(i)*0.001,
				"ts":  s.timestamp(),
			})
		}
		payload["path"] = path
		payload["last_known"] = path[len(path)-1]
	}

	return action.OK("locate_trip_path", payload), nil
}

type lostAndFoundInput struct {
	TripID string
}

func decodeLostAndFound(p action.Params) (lostAndFoundInput, error) {
	in := lostAndFoundInput{TripID: p.StringFirst("trip_id", "trip")}
	if in.TripID == "" {
		return in, errors.New("trip_id required")
	}
	return in, nil
}

func (s *Simulator) initiateLostAndFound(ctx context.Context, in lostAndFoundInput) (action.Result, error) {
	initiated := s.chance(0.95)
	payload := map[string]any{
		"trip_id":        in.TripID,
		"case_initiated": initiated,
	}
	if initiated {
		payload["case_id"] = types.NewID("LF")
		payload["next_steps"] = []any{"contact_driver", "check_vehicle"}
	}

	return action.OK("initiate_lost_and_found_flow", payload), nil
}

type notifyTripPartiesInput struct {
	TripID  string
	Message string
}

func decodeNotifyTripParties(p action.Params) (notifyTripPartiesInput, error) {
	in := notifyTripPartiesInput{
		TripID:  p.StringFirst("trip_id", "trip"),
		Message: p.String("message"),
	}
	if in.TripID == "" || in.Message == "" {
		return in, errors.New("trip_id and message required")
	}
	return in, nil
}

func (s *Simulator) notifyPassengerAndDriver(ctx context.Context, in notifyTripPartiesInput) (action.Result, error) {
	return action.OK("notify_passenger_and_driver", map[string]any{
		"trip_id":       in.TripID,
		"passenger_ack": s.chance(0.9),
		"driver_ack":    s.chance(0.95),
	}), nil
}
