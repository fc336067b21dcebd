// Package orchestrator drives the autonomous resolution loop: ask the
// oracle for the next action, run it through the authorization gate and
// the registry, evaluate the outcome against the escalation policy,
// and repeat until the incident is resolved or a safety limit trips.
//
// The loop is deliberately defensive about its one untrusted input,
// the oracle. Malformed responses get a single corrective retry, calls
// are bounded by a wall-clock timeout, and every oracle fault degrades
// to a synthesized diagnostic plan instead of an error. The audit
// trail in RunState is append-only so a finished run is a faithful
// record of what happened.
package orchestrator
