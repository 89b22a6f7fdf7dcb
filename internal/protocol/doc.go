// Package protocol owns the relay wire contract.
//
// Ownership boundary:
// - envelope decode and type dispatch
// - inbound message shapes and validation
// - relay acknowledgment and error reply shapes
//
// Every message is one JSON object with a `type` discriminator. Routed
// payloads (touch, browser, keyboard notices) are opaque to the relay and
// forwarded byte-identical; only control messages have typed shapes here.
package protocol
