// Package transport defines the framed bidirectional channel between the
// orchestrator and one worker.
package transport

import (
	"errors"

	"github.com/viant/brigade/model"
	"github.com/viant/brigade/protocol"
)

// ErrClosed is returned once the endpoint or its peer has been closed.
var ErrClosed = errors.New("transport: closed")

// Transport represents one endpoint of a worker channel
type Transport interface {
	// Send writes a whole payload, blocking until it is written.
	Send(payload []byte) error

	// Receive returns the next complete payload, or nil when none is
	// available yet. It never blocks. ErrClosed is returned once the peer
	// is gone and every buffered payload was consumed.
	Receive() ([]byte, error)

	// IsReady returns true while both directions are open.
	IsReady() bool

	// Close releases the endpoint. It is safe to call more than once.
	Close() error
}

// SendMessage encodes and sends a message
func SendMessage(t Transport, msg protocol.Message) error {
	payload, err := protocol.Encode(msg)
	if err != nil {
		return model.NewError(model.ErrorKindTransport, "encode", err)
	}
	if err = t.Send(payload); err != nil {
		return model.NewError(model.ErrorKindTransport, "send "+msg.Tag(), err)
	}
	return nil
}

// ReceiveMessage returns the next decoded message or nil when nothing is
// pending. Decoding errors are returned together with the raw payload so
// callers can log and skip it.
func ReceiveMessage(t Transport) (protocol.Message, []byte, error) {
	payload, err := t.Receive()
	if err != nil {
		return nil, nil, err
	}
	if payload == nil {
		return nil, nil, nil
	}
	msg, err := protocol.Decode(payload)
	return msg, payload, err
}
