package scenario

// DefaultCatalog returns the built-in incident set, covering each
// vertical the action catalog serves.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Scenario{
		{
			ID:          "overloaded-restaurant",
			Vertical:    "food",
			Title:       "Overloaded restaurant",
			Description: "Driver is at the restaurant but the kitchen reports a 40 minute backlog on order O-1001. Customer is already asking where the food is.",
			AllowedActions: []string{
				"get_merchant_status", "get_nearby_merchants", "contact_merchant",
				"hold_order_with_merchant", "notify_customer", "issue_voucher",
				"propose_substitute",
			},
			SuccessCriteria: "customer informed and order held or substituted",
			Seed:            11,
		},
		{
			ID:          "damaged-package-dispute",
			Vertical:    "food",
			Title:       "Damaged packaging dispute at the door",
			Description: "Customer C-2002 refuses order O-2002 claiming a spilled drink; driver D-2002 says the bag was sealed by the merchant. Both are waiting at the door.",
			AllowedActions: []string{
				"collect_evidence", "analyze_evidence", "issue_instant_refund",
				"issue_partial_refund", "exonerate_driver",
				"log_merchant_packaging_feedback", "notify_customer",
			},
			SuccessCriteria: "fault assigned from evidence, refund or exoneration issued",
			Seed:            22,
		},
		{
			ID:          "recipient-unavailable",
			Vertical:    "express",
			Title:       "Valuable package, recipient unavailable",
			Description: "Driver D-3003 is at the address with a high-value parcel but recipient R-3003 does not answer the door or phone.",
			AllowedActions: []string{
				"contact_recipient", "suggest_safe_drop_off", "find_nearby_locker",
				"schedule_redelivery", "contact_sender", "verify_address_with_customer",
			},
			SuccessCriteria: "package secured or redelivery arranged",
			Seed:            33,
		},
		{
			ID:          "trip-road-hazard",
			Vertical:    "ride",
			Title:       "Hazardous road conditions mid-trip",
			Description: "Trip T-4004 is heading toward a flooded underpass on route R-44. Passenger and driver are unaware.",
			AllowedActions: []string{
				"check_traffic", "calculate_alternative_route", "re_route_driver",
				"reroute_driver_to_safe_location", "notify_passenger_and_driver",
				"contact_support_live",
			},
			SuccessCriteria: "trip rerouted away from the hazard and both parties informed",
			Seed:            44,
		},
		{
			ID:          "lost-item",
			Vertical:    "ride",
			Title:       "Passenger left an item in the car",
			Description: "Passenger on completed trip T-5005 reports a lost laptop bag. Driver has since started another trip.",
			AllowedActions: []string{
				"locate_trip_path", "initiate_lost_and_found_flow", "get_driver_status",
				"notify_passenger_and_driver", "contact_support_live",
			},
			SuccessCriteria: "lost and found case opened and passenger informed",
			Seed:            55,
		},
	})
	if err != nil {
		// The built-in set is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return c
}
