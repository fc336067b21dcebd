package policy

// defaultRules is the escalation table. Order is significant: the
// generic error rule comes first, then per-action fallback chains.
//
// The three check_traffic severity rules overlap; the first covers
// "severe" alone, so the later two can only fire for "hazardous" and
// "major" respectively. The overlap is preserved as-is because callers
// depend on the re_route_driver suggestion for severe incidents.
var defaultRules = []Rule{
	{
		Action:      "*",
		When:        isError,
		Reason:      errorReason,
		Alternative: "",
	},
	{
		Action:      "contact_recipient",
		When:        flagFalse("contact_successful"),
		Reason:      reason("Recipient contact failed, need alternative delivery approach"),
		Alternative: "suggest_safe_drop_off",
	},
	{
		Action:      "suggest_safe_drop_off",
		When:        flagFalse("safe_option_available"),
		Reason:      reason("Safe drop-off not available, try locker option"),
		Alternative: "find_nearby_locker",
	},
	{
		Action:      "find_nearby_locker",
		When:        flagFalse("lockers_found"),
		Reason:      reason("No lockers available, escalate to redelivery"),
		Alternative: "schedule_redelivery",
	},
	{
		Action:      "schedule_redelivery",
		When:        flagFalse("scheduled"),
		Reason:      reason("Redelivery scheduling failed, contact sender"),
		Alternative: "contact_sender",
	},
	{
		Action:      "contact_merchant",
		When:        flagFalse("merchant_available"),
		Reason:      reason("Merchant unavailable, try direct stock check"),
		Alternative: "get_merchant_status",
	},
	{
		Action:      "collect_evidence",
		When:        flagFalse("evidence_collected"),
		Reason:      reason("Evidence collection failed, proceed with customer satisfaction approach"),
		Alternative: "issue_instant_refund",
	},
	{
		Action:      "check_traffic",
		When:        fieldEquals("incident_level", "severe"),
		Reason:      reason("Severe traffic detected, need alternative routing"),
		Alternative: "re_route_driver",
	},
	{
		Action:      "get_merchant_status",
		When:        flagFalse("open"),
		Reason:      reason("Merchant is closed, find alternative merchant"),
		Alternative: "get_nearby_merchants",
	},
	{
		Action:      "notify_customer",
		When:        flagFalse("delivered"),
		Reason:      reason("Customer notification failed, try alternative communication"),
		Alternative: "",
	},
	{
		Action:      "analyze_evidence",
		When:        confidenceBelow(0.5),
		Reason:      reason("Evidence analysis has low confidence, proceed with goodwill approach"),
		Alternative: "issue_partial_refund",
	},
	{
		Action:      "issue_instant_refund",
		When:        flagTrue("requires_approval"),
		Reason:      reason("Refund requires approval, try partial refund instead"),
		Alternative: "issue_partial_refund",
	},
	{
		Action:      "get_driver_status",
		When:        fieldEquals("state", "idle"),
		Reason:      reason("Driver is idle and unresponsive, notify customer and find replacement"),
		Alternative: "notify_customer",
	},
	{
		Action:      "find_replacement_driver",
		When:        flagFalse("driver_found"),
		Reason:      reason("No replacement driver available, cancel booking and issue refund"),
		Alternative: "cancel_booking",
	},
	{
		Action:      "cancel_booking",
		When:        flagFalse("cancelled"),
		Reason:      reason("Booking cancellation failed, escalate to support"),
		Alternative: "contact_support_live",
	},
	{
		Action:      "check_traffic",
		When:        fieldIn("incident_level", "severe", "hazardous"),
		Reason:      reason("Hazardous road conditions detected, prioritize safety with immediate rerouting"),
		Alternative: "reroute_driver_to_safe_location",
	},
	{
		Action:      "reroute_driver_to_safe_location",
		When:        flagFalse("rerouted"),
		Reason:      reason("Safe rerouting failed, notify all parties and escalate"),
		Alternative: "notify_passenger_and_driver",
	},
	{
		Action:      "notify_passenger_and_driver",
		When:        anyOf(flagFalse("passenger_ack"), flagFalse("driver_ack")),
		Reason:      reason("Communication failed during safety incident, escalate immediately"),
		Alternative: "contact_support_live",
	},
	{
		Action:      "locate_trip_path",
		When:        flagFalse("trip_found"),
		Reason:      reason("Trip path could not be located, initiate lost and found process anyway"),
		Alternative: "initiate_lost_and_found_flow",
	},
	{
		Action:      "initiate_lost_and_found_flow",
		When:        flagFalse("case_initiated"),
		Reason:      reason("Lost and found case failed to initiate, escalate to support"),
		Alternative: "contact_support_live",
	},
	{
		Action:      "check_traffic",
		When:        fieldIn("incident_level", "major", "severe"),
		Reason:      reason("Major traffic obstruction detected, need immediate alternative routing"),
		Alternative: "calculate_alternative_route",
	},
	{
		Action:      "calculate_alternative_route",
		When:        flagFalse("alternative_found"),
		Reason:      reason("No alternative route available, notify all parties and consider trip cancellation"),
		Alternative: "notify_passenger_and_driver",
	},
	{
		Action:      "verify_address_with_customer",
		When:        flagFalse("address_confirmed"),
		Reason:      reason("Customer could not confirm correct address, escalate to sender for guidance"),
		Alternative: "contact_sender",
	},
	{
		Action:      "verify_address_with_customer",
		When:        fieldPresent("corrected_address"),
		Reason:      reason("Customer provided corrected address, reroute driver immediately"),
		Alternative: "re_route_driver",
	},
}
