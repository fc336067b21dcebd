package builtin

import (
	"context"
	"errors"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type checkTrafficInput struct {
	RouteID string
}

func decodeCheckTraffic(p action.Params) (checkTrafficInput, error) {
	in := checkTrafficInput{RouteID: p.StringFirst("route_id", "route")}
	if in.RouteID == "" {
		return in, errors.New("route_id required")
	}
	return in, nil
}

func (s *Simulator) checkTraffic(ctx context.Context, in checkTrafficInput) (action.Result, error) {
	level := pick(s, "none", "none", "minor", "minor", "major", "severe", "hazardous")
	blocked := level == "major" || level == "severe" || level == "hazardous"
	delay := 0
	if level != "none" {
		delay = s.between(5, 45)
	}

	payload := map[string]any{
		"route_id":       in.RouteID,
		"incident_level": level,
		"blocked":        blocked,
		"delay_mins":     delay,
	}
	if blocked {
		payload["details"] = map[string]any{
			"location":      "Junction X",
			"incident_type": pick(s, "accident", "flooding", "road_closure"),
		}
	}

	return action.OK("check_traffic", payload), nil
}

type altRouteInput struct {
	RouteID string
}

func decodeAltRoute(p action.Params) (altRouteInput, error) {
	in := altRouteInput{RouteID: p.StringFirst("route_id", "route")}
	if in.RouteID == "" {
		return in, errors.New("route_id required")
	}
	return in, nil
}

func (s *Simulator) calculateAlternativeRoute(ctx context.Context, in altRouteInput) (action.Result, error) {
	found := s.chance(0.85)
	payload := map[string]any{
		"route_id":          in.RouteID,
		"alternative_found": found,
	}

	if found {
		alternatives := make([]any, 0, 2)
		for i := 0; i < 2; i++ {
			alternatives = append(alternatives, map[string]any{
				"route_id":       types.NewID("R"),
				"eta_delta_mins": pick(s, 5, 10, 20),
				"distance_m":     pick(s, 2000, 5000, 12000),
			})
		}
		payload["alternatives"] = alternatives
	}

	return action.OK("calculate_alternative_route", payload), nil
}

type reRouteInput struct {
	DriverID string
	NewRoute map[string]any
}

func decodeReRoute(p action.Params) (reRouteInput, error) {
	in := reRouteInput{
		DriverID: p.StringFirst("driver_id", "driver"),
		NewRoute: p.Map("new_route"),
	}
	if in.DriverID == "" || in.NewRoute == nil {
		return in, errors.New("driver_id and new_route required")
	}
	return in, nil
}

func (s *Simulator) reRouteDriver(ctx context.Context, in reRouteInput) (action.Result, error) {
	return action.OK("re_route_driver", map[string]any{
		"driver_id":   in.DriverID,
		"new_route":   in.NewRoute,
		"status_text": "rerouted",
	}), nil
}

type safeRerouteInput struct {
	DriverID string
	Location map[string]any
}

func decodeSafeReroute(p action.Params) (safeRerouteInput, error) {
	in := safeRerouteInput{
		DriverID: p.StringFirst("driver_id", "driver"),
		Location: p.Map("location"),
	}
	if in.DriverID == "" || in.Location == nil {
		return in, errors.New("driver_id and location required")
	}
	return in, nil
}

func (s *Simulator) rerouteDriverToSafeLocation(ctx context.Context, in safeRerouteInput) (action.Result, error) {
	rerouted := s.chance(0.9)
	return action.OK("reroute_driver_to_safe_location", map[string]any{
		"driver_id":    in.DriverID,
		"new_location": in.Location,
		"rerouted":     rerouted,
	}), nil
}
