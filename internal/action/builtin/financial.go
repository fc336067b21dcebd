package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/synapse-ops/synapse/internal/action"
	"github.com/synapse-ops/synapse/internal/types"
)

// approvalThreshold is the amount above which vouchers and full refunds
// need an upstream approval before the handler will disburse.
const approvalThreshold = 50.0

type voucherInput struct {
	CustomerID string
	Amount     float64
	Currency   string
	Reason     string
	Approved   bool
}

func decodeVoucher(p action.Params) (voucherInput, error) {
	in := voucherInput{
		CustomerID: p.StringFirst("customer_id", "customer"),
		Currency:   p.String("currency"),
		Reason:     p.String("reason"),
		Approved:   p.Bool("approved", false),
	}
	amount, ok := p.Float64("amount")
	if in.CustomerID == "" || !ok {
		return in, errors.New("customer_id and amount required")
	}
	if amount <= 0 {
		return in, errors.New("amount must be positive")
	}
	in.Amount = amount
	if in.Currency == "" {
		in.Currency = "USD"
	}
	return in, nil
}

func (s *Simulator) issueVoucher(ctx context.Context, in voucherInput) (action.Result, error) {
	const name = "issue_voucher"

	if in.Amount > approvalThreshold && !in.Approved {
		return action.OK(name, map[string]any{
			"customer_id":       in.CustomerID,
			"requested_amount":  in.Amount,
			"issued":            false,
			"requires_approval": true,
			"message":           fmt.Sprintf("voucher amount %.2f exceeds threshold %.2f", in.Amount, approvalThreshold),
		}), nil
	}

	return action.OK(name, map[string]any{
		"voucher_id":  types.NewID("v"),
		"customer_id": in.CustomerID,
		"amount":      in.Amount,
		"currency":    in.Currency,
		"issued":      true,
		"reason":      in.Reason,
	}), nil
}

type instantRefundInput struct {
	OrderID  string
	Amount   float64
	Currency string
	Reason   string
	Approved bool
}

func decodeInstantRefund(p action.Params) (instantRefundInput, error) {
	in := instantRefundInput{
		OrderID:  p.StringFirst("order_id", "order"),
		Currency: p.String("currency"),
		Reason:   p.String("reason"),
		Approved: p.Bool("approved", false),
	}
	amount, ok := p.Float64("amount")
	if in.OrderID == "" || !ok {
		return in, errors.New("order_id and amount required")
	}
	if amount <= 0 {
		return in, errors.New("amount must be positive")
	}
	in.Amount = amount
	if in.Currency == "" {
		in.Currency = "USD"
	}
	return in, nil
}

func (s *Simulator) issueInstantRefund(ctx context.Context, in instantRefundInput) (action.Result, error) {
	const name = "issue_instant_refund"

	if in.Amount > approvalThreshold && !in.Approved {
		return action.OK(name, map[string]any{
			"order_id":          in.OrderID,
			"requested_amount":  in.Amount,
			"issued":            false,
			"requires_approval": true,
			"message":           fmt.Sprintf("refund amount %.2f exceeds threshold %.2f", in.Amount, approvalThreshold),
		}), nil
	}

	return action.OK(name, map[string]any{
		"refund_id": types.NewID("r"),
		"order_id":  in.OrderID,
		"amount":    in.Amount,
		"currency":  in.Currency,
		"issued":    true,
		"reason":    in.Reason,
	}), nil
}

type partialRefundInput struct {
	OrderID  string
	Amount   float64
	Currency string
}

func decodePartialRefund(p action.Params) (partialRefundInput, error) {
	in := partialRefundInput{
		OrderID:  p.StringFirst("order_id", "order"),
		Currency: p.String("currency"),
	}
	amount, ok := p.Float64("amount")
	if in.OrderID == "" || !ok {
		return in, errors.New("order_id and amount required")
	}
	if amount <= 0 {
		return in, errors.New("amount must be positive")
	}
	in.Amount = amount
	if in.Currency == "" {
		in.Currency = "USD"
	}
	return in, nil
}

func (s *Simulator) issuePartialRefund(ctx context.Context, in partialRefundInput) (action.Result, error) {
	return action.OK("issue_partial_refund", map[string]any{
		"refund_id": types.NewID("pr"),
		"order_id":  in.OrderID,
		"amount":    in.Amount,
		"currency":  in.Currency,
		"issued":    true,
	}), nil
}
