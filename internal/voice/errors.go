package voice

import (
	"errors"
	"fmt"
)

// ErrStreamingNotPermitted is returned by CreateSession when the account
// tier does not include realtime voice streaming.
var ErrStreamingNotPermitted = errors.New("voice: account is not permitted to use realtime streaming")

// ErrClosedUnexpectedly is the terminal error for a connection that dropped
// before end_of_stream once reconnection is disabled or exhausted.
var ErrClosedUnexpectedly = errors.New("voice: connection closed unexpectedly")

// ErrConnectionClosed is returned by sends against a connection that is no
// longer open (typically one superseded by a reconnect).
var ErrConnectionClosed = errors.New("voice: connection is closed")

// ValidationError reports a request the service (or this client) rejected as
// malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "voice: invalid request: " + e.Message
}

// URLError reports a streaming URL that was rejected before any connection
// attempt. Only secure WebSocket URLs on the trusted service domain are ever
// dialed, so session tokens cannot leak to arbitrary hosts.
type URLError struct {
	URL    string
	Reason string
}

func (e *URLError) Error() string {
	return fmt.Sprintf("voice: refusing to connect to %q: %s", e.URL, e.Reason)
}

// ProtocolError is an explicit error frame from the server. It is always
// fatal for the session and never retried: the server has already decided
// the session cannot continue.
type ProtocolError struct {
	RequestType string
	ErrorCode   int
	ReasonCode  int
	Message     string
}

func (e *ProtocolError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("voice: server error %d/%d: %s", e.ErrorCode, e.ReasonCode, e.Message)
	}
	return fmt.Sprintf("voice: server error %d/%d", e.ErrorCode, e.ReasonCode)
}

// RequestError is a non-2xx REST response that maps to no more specific
// condition.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("voice: request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("voice: request failed with status %d", e.StatusCode)
}
