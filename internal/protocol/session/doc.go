// Package session owns plugin<->FSM transport reliability primitives:
// connect/request timeouts and the reconnect backoff schedule. It does not
// know about framing or message shapes; see frame and ptypes for those.
package session
