// Package relay owns the pairing relay core.
//
// Ownership boundary:
// - connection registry and per-peer state machine
// - pairing-code store and the two authentication paths
// - session-scoped message routing (fan-out, fire-and-forget)
// - liveness supervision and cascade cleanup
//
// The Server type is transport-agnostic and fully exercised by package
// tests; Service wraps it with the websocket/HTTP runtime.
package relay
