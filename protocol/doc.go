// Package protocol defines the messages exchanged between the orchestrator
// and a worker together with their textual encoding and length-prefixed
// framing.
//
// Inside the process every message is a typed value implementing Message.
// The textual tags (TASK:, STATUS_REQUEST, STATUS:, DONE:, FAILED:) exist only
// as the bytes-on-wire representation produced by Encode and consumed by
// Decode.  A frame is a 4-byte little-endian payload length followed by the
// UTF-8 payload.
package protocol
