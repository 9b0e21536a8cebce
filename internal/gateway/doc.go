package gateway

// Package gateway issues the dashboard's outbound HTTP calls: the wake fan-out
// that pre-warms cold-started services, the Model 1 player-count prediction and
// the Model 2 recommendation request. Every failure mode of a call collapses
// into a single RemoteCallError. Calls are never retried.
