package model

// SessionState represents where a dashboard session is in its interaction cycle
type SessionState string

const (
	// SessionIdle means no action is in flight
	SessionIdle SessionState = "Idle"

	// SessionPendingDelete means a row deletion was requested and waits for the next render cycle
	SessionPendingDelete SessionState = "PendingDelete"

	// SessionAwaitingPrediction means a Model 1 call is in flight
	SessionAwaitingPrediction SessionState = "AwaitingPrediction"

	// SessionAwaitingRecommendation means a Model 2 call is in flight
	SessionAwaitingRecommendation SessionState = "AwaitingRecommendation"

	// SessionAwaitingWake means the wake fan-out is in flight
	SessionAwaitingWake SessionState = "AwaitingWake"

	// SessionWakeBannerActive means the wake banner is shown until it expires
	SessionWakeBannerActive SessionState = "WakeBannerActive"
)

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsAwaiting returns true if a remote call is in flight
func (s SessionState) IsAwaiting() bool {
	return s == SessionAwaitingPrediction || s == SessionAwaitingRecommendation || s == SessionAwaitingWake
}

// AcceptsEdits returns true if the row list may be changed in this state
func (s SessionState) AcceptsEdits() bool {
	return !s.IsAwaiting()
}
