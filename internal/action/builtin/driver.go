package builtin

import (
	"context"
	"errors"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type driverStatusInput struct {
	DriverID string
}

func decodeDriverStatus(p action.Params) (driverStatusInput, error) {
	in := driverStatusInput{DriverID: p.StringFirst("driver_id", "driver")}
	if in.DriverID == "" {
		return in, errors.New("driver_id required")
	}
	return in, nil
}

func (s *Simulator) getDriverStatus(ctx context.Context, in driverStatusInput) (action.Result, error) {
	return action.OK("get_driver_status", map[string]any{
		"driver_id": in.DriverID,
		"state":     pick(s, "idle", "on_trip", "on_trip", "arrived"),
		"location": map[string]any{
			"lat": 1.35 + s.jitter(0.01),
			"lng": 103.8 + s.jitter(0.01),
		},
	}), nil
}

type exonerateInput struct {
	DriverID string
	OrderID  string
	Note     string
}

func decodeExonerate(p action.Params) (exonerateInput, error) {
	in := exonerateInput{
		DriverID: p.StringFirst("driver_id", "driver"),
		OrderID:  p.StringFirst("order_id", "order"),
		Note:     p.String("reason"),
	}
	if in.DriverID == "" {
		return in, errors.New("driver_id required")
	}
	if in.Note == "" {
		in.Note = "Exonerated based on evidence review"
	}
	return in, nil
}

func (s *Simulator) exonerateDriver(ctx context.Context, in exonerateInput) (action.Result, error) {
	return action.OK("exonerate_driver", map[string]any{
		"driver_id":  in.DriverID,
		"order_id":   in.OrderID,
		"exonerated": true,
		"note":       in.Note,
	}), nil
}

type cancelBookingInput struct {
	BookingID string
	Reason    string
}

func decodeCancelBooking(p action.Params) (cancelBookingInput, error) {
	in := cancelBookingInput{
		BookingID: p.StringFirst("booking_id", "booking"),
		Reason:    p.String("reason"),
	}
	if in.BookingID == "" || in.Reason == "" {
		return in, errors.New("booking_id and reason required")
	}
	return in, nil
}

func (s *Simulator) cancelBooking(ctx context.Context, in cancelBookingInput) (action.Result, error) {
	cancelled := s.chance(0.95)
	payload := map[string]any{
		"booking_id":       in.BookingID,
		"cancelled":        cancelled,
		"reason":           in.Reason,
		"refund_processed": cancelled,
	}
	if cancelled {
		payload["cancellation_id"] = types.NewID("cancel")
	} else {
		payload["error_message"] = "Cancellation failed - booking may be too advanced"
	}

	return action.OK("cancel_booking", payload), nil
}

type replacementDriverInput struct {
	BookingID string
	Lat       float64
	Lng       float64
}

func decodeReplacementDriver(p action.Params) (replacementDriverInput, error) {
	in := replacementDriverInput{BookingID: p.StringFirst("booking_id", "booking")}
	if in.BookingID == "" {
		return in, errors.New("booking_id required")
	}
	lat, lng, ok := p.LatLng()
	if !ok {
		return in, errors.New("location required")
	}
	in.Lat, in.Lng = lat, lng
	return in, nil
}

func (s *Simulator) findReplacementDriver(ctx context.Context, in replacementDriverInput) (action.Result, error) {
	found := s.chance(0.7)
	payload := map[string]any{
		"booking_id":   in.BookingID,
		"driver_found": found,
	}

	if found {
		payload["replacement_driver_id"] = types.NewID("driver")
		payload["eta_minutes"] = pick(s, 5, 10, 15, 20)
		payload["driver_location"] = map[string]any{
			"lat": in.Lat + s.jitter(0.01),
			"lng": in.Lng + s.jitter(0.01),
		}
	} else {
		payload["suggested_wait_mins"] = pick(s, 15, 20, 30)
	}

	return action.OK("find_replacement_driver", payload), nil
}
