// Package builtin provides the simulated action catalog for last-mile
// logistics incidents. Every handler is stateless from the caller's
// point of view and returns the uniform result envelope; outcome
// variance comes from a single seeded random source so scenario runs
// are reproducible.
package builtin

import (
	"math/rand"
	"sync"
	"time"

	"github.com/synapse-ops/synapse/internal/action"
)

// Simulator owns the random source and clock shared by the catalog.
// Handlers are methods on it; a mutex guards the rand.Rand because the
// registry may dispatch concurrently.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithClock overrides the time source, used by tests that assert
// timestamp-bearing payloads.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Simulator seeded for reproducible outcomes.
func New(seed int64, opts ...Option) *Simulator {
	s := &Simulator{
		rng: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// chance returns true with probability p.
func (s *Simulator) chance(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

// pick returns one of the given values.
func pick[T any](s *Simulator, values ...T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return values[s.rng.Intn(len(values))]
}

// between returns a random int in [lo, hi].
func (s *Simulator) between(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

// jitter returns a random float in [0, span).
func (s *Simulator) jitter(span float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * span
}

func (s *Simulator) timestamp() string {
	return s.now().Format(time.RFC3339)
}

// Catalog returns the full handler set backed by the given simulator.
// Every handler is registered through the typed adapter, so the loose
// parameter bag is decoded into a per-action input struct at the
// registry boundary and the handler bodies only see validated input.
func Catalog(s *Simulator) []action.Handler {
	return []action.Handler{
		// traffic and routing
		action.NewTyped("check_traffic", "Check real-time traffic conditions on a route", decodeCheckTraffic, s.checkTraffic),
		action.NewTyped("calculate_alternative_route", "Compute alternative routes around an obstruction", decodeAltRoute, s.calculateAlternativeRoute),
		action.NewTyped("re_route_driver", "Send a driver a new route", decodeReRoute, s.reRouteDriver),
		action.NewTyped("reroute_driver_to_safe_location", "Move a driver away from a hazardous area", decodeSafeReroute, s.rerouteDriverToSafeLocation),

		// merchant operations
		action.NewTyped("get_merchant_status", "Fetch merchant prep time, open state, and stock", decodeMerchantStatus, s.getMerchantStatus),
		action.NewTyped("get_nearby_merchants", "Discover alternative merchants near a point", decodeNearbyMerchants, s.getNearbyMerchants),
		action.NewTyped("contact_merchant", "Message a merchant directly", decodeContactMerchant, s.contactMerchant),
		action.NewTyped("propose_substitute", "Offer substitute items for an order", decodeSubstitute, s.proposeSubstitute),
		action.NewTyped("log_merchant_packaging_feedback", "Record packaging quality feedback for a merchant", decodePackagingFeedback, s.logMerchantPackagingFeedback),
		action.NewTyped("hold_order_with_merchant", "Ask a merchant to hold an order", decodeHoldOrder, s.holdOrderWithMerchant),

		// customer communication
		action.NewTyped("notify_customer", "Send a notification to a customer", decodeNotifyCustomer, s.notifyCustomer),
		action.NewTyped("verify_address_with_customer", "Confirm a delivery address with the customer", decodeVerifyAddress, s.verifyAddressWithCustomer),

		// delivery management
		action.NewTyped("contact_recipient", "Reach the package recipient over chat", decodeContactRecipient, s.contactRecipient),
		action.NewTyped("suggest_safe_drop_off", "Propose secure drop-off options", decodeSafeDropOff, s.suggestSafeDropOff),
		action.NewTyped("find_nearby_locker", "Find parcel lockers near a point", decodeNearbyLocker, s.findNearbyLocker),
		action.NewTyped("schedule_redelivery", "Book a redelivery window", decodeRedelivery, s.scheduleRedelivery),
		action.NewTyped("contact_sender", "Reach the sender of a package", decodeContactSender, s.contactSender),

		// driver management
		action.NewTyped("get_driver_status", "Fetch a driver's state and location", decodeDriverStatus, s.getDriverStatus),
		action.NewTyped("exonerate_driver", "Clear a driver of fault on an order", decodeExonerate, s.exonerateDriver),
		action.NewTyped("cancel_booking", "Cancel a booking and process the refund", decodeCancelBooking, s.cancelBooking),
		action.NewTyped("find_replacement_driver", "Locate a replacement driver for a booking", decodeReplacementDriver, s.findReplacementDriver),

		// dispute resolution
		action.NewTyped("collect_evidence", "Request dispute evidence from customer and driver", decodeCollectEvidence, s.collectEvidence),
		action.NewTyped("analyze_evidence", "Score collected evidence for fault and confidence", decodeAnalyzeEvidence, s.analyzeEvidence),

		// financial
		action.NewTyped("issue_voucher", "Issue a goodwill voucher to a customer", decodeVoucher, s.issueVoucher),
		action.NewTyped("issue_instant_refund", "Refund an order in full immediately", decodeInstantRefund, s.issueInstantRefund),
		action.NewTyped("issue_partial_refund", "Refund part of an order", decodePartialRefund, s.issuePartialRefund),

		// trip recovery
		action.NewTyped("locate_trip_path", "Reconstruct the GPS path of a trip", decodeTripPath, s.locateTripPath),
		action.NewTyped("initiate_lost_and_found_flow", "Open a lost and found case for a trip", decodeLostAndFound, s.initiateLostAndFound),
		action.NewTyped("notify_passenger_and_driver", "Notify both parties of a trip", decodeNotifyTripParties, s.notifyPassengerAndDriver),

		// escalation
		action.NewTyped("contact_support_live", "Open a live support ticket", decodeSupportTicket, s.contactSupportLive),
		action.NewTyped("escalate_to_management", "Escalate an issue to management", decodeEscalate, s.escalateToManagement),
	}
}

// RegisterAll registers the full catalog on the given registry.
func RegisterAll(reg *action.Registry, s *Simulator) error {
	return RegisterAllowed(reg, s, nil)
}

// RegisterAllowed registers the subset of the catalog the filter admits.
// A nil filter admits everything.
func RegisterAllowed(reg *action.Registry, s *Simulator, allow func(name string) bool) error {
	for _, h := range Catalog(s) {
		if allow != nil && !allow(h.Name()) {
			continue
		}
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}
