package gateway

import (
	"errors"
	"fmt"
)

// Operation names, also used as metric labels
const (
	OpWake      = "wake"
	OpPredict   = "predict"
	OpRecommend = "recommend"
)

// ErrNoURLs is returned by WakeAll when there is nothing to wake
var ErrNoURLs = errors.New("no service URLs to wake")

// ErrUnexpectedStatus is wrapped when a service answers outside 2xx
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrMalformedResponse is wrapped when the body does not have the expected shape
var ErrMalformedResponse = errors.New("malformed response")

// RemoteCallError covers network failures, timeouts, non-2xx statuses and
// response shape mismatches of a single call.
type RemoteCallError struct {
	Op         string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsRemoteCallError reports whether err is, or wraps, a RemoteCallError
func IsRemoteCallError(err error) bool {
	var rce *RemoteCallError
	return errors.As(err, &rce)
}
