package builtin

import (
	"context"
	"errors"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

type notifyCustomerInput struct {
	CustomerID string
	Message    string
	Channel    string
}

func decodeNotifyCustomer(p action.Params) (notifyCustomerInput, error) {
	in := notifyCustomerInput{
		CustomerID: p.StringFirst("customer_id", "customer"),
		Message:    p.String("message"),
		Channel:    p.String("channel"),
	}
	if in.CustomerID == "" || in.Message == "" {
		return in, errors.New("customer_id and message required")
	}
	if in.Channel == "" {
		in.Channel = "app"
	}
	return in, nil
}

func (s *Simulator) notifyCustomer(ctx context.Context, in notifyCustomerInput) (action.Result, error) {
	return action.OK("notify_customer", map[string]any{
		"customer_id": in.CustomerID,
		"channel":     in.Channel,
		"delivered":   s.chance(0.95),
		"message_id":  types.NewID("msg"),
		"message":     in.Message,
	}), nil
}

type verifyAddressInput struct {
	CustomerID      string
	ProvidedAddress map[string]any
}

func decodeVerifyAddress(p action.Params) (verifyAddressInput, error) {
	in := verifyAddressInput{
		CustomerID:      p.StringFirst("customer_id", "customer"),
		ProvidedAddress: p.Map("provided_address"),
	}
	if in.ProvidedAddress == nil {
		in.ProvidedAddress = p.Map("address")
	}
	if in.CustomerID == "" || in.ProvidedAddress == nil {
		return in, errors.New("customer_id and provided_address required")
	}
	return in, nil
}

// verifyAddressWithCustomer has three outcomes: the customer confirms
// the address as given, confirms with a correction, or cannot be
// reached at all.
func (s *Simulator) verifyAddressWithCustomer(ctx context.Context, in verifyAddressInput) (action.Result, error) {
	payload := map[string]any{
		"customer_id":      in.CustomerID,
		"provided_address": in.ProvidedAddress,
	}

	switch pick(s, "confirmed", "confirmed", "confirmed", "corrected", "unreachable") {
	case "confirmed":
		payload["address_confirmed"] = true
	case "corrected":
		corrected := map[string]any{}
		for k, v := range in.ProvidedAddress {
			corrected[k] = v
		}
		line1, _ := corrected["line1"].(string)
		corrected["line1"] = line1 + " Apt 2"
		payload["address_confirmed"] = true
		payload["corrected_address"] = corrected
	default:
		payload["address_confirmed"] = false
	}

	return action.OK("verify_address_with_customer", payload), nil
}
