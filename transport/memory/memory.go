// Package memory implements transport.Transport with buffered channels for
// workers running as goroutines inside the orchestrator process.
package memory

import (
	"bytes"
	"sync"

	"github.com/viant/brigade/protocol"
	"github.com/viant/brigade/transport"
)

// Config for memory transport implementation
type Config struct {
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory transport
func DefaultConfig() Config {
	return Config{
		QueueBuffer: 100,
	}
}

// link is one direction of a pair
type link struct {
	frames chan []byte
	done   chan struct{}
	once   sync.Once
}

func newLink(buffer int) *link {
	return &link{frames: make(chan []byte, buffer), done: make(chan struct{})}
}

func (l *link) close() {
	l.once.Do(func() { close(l.done) })
}

func (l *link) isClosed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Endpoint implements transport.Transport for in-process workers
type Endpoint struct {
	in  *link
	out *link
}

// NewPair creates connected orchestrator and worker endpoints
func NewPair(config Config) (parent *Endpoint, child *Endpoint) {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	toWorker := newLink(config.QueueBuffer)
	fromWorker := newLink(config.QueueBuffer)
	return &Endpoint{in: fromWorker, out: toWorker}, &Endpoint{in: toWorker, out: fromWorker}
}

// Send frames the payload and blocks until the peer buffer accepts it
func (e *Endpoint) Send(payload []byte) error {
	if e.out.isClosed() {
		return transport.ErrClosed
	}
	frame, err := protocol.AppendFrame(nil, payload)
	if err != nil {
		return err
	}
	select {
	case <-e.out.done:
		return transport.ErrClosed
	case e.out.frames <- frame:
		return nil
	}
}

// Receive returns the next frame payload or nil without blocking
func (e *Endpoint) Receive() ([]byte, error) {
	select {
	case frame := <-e.in.frames:
		return protocol.ReadFrame(bytes.NewReader(frame))
	default:
	}
	if e.in.isClosed() {
		return nil, transport.ErrClosed
	}
	return nil, nil
}

// IsReady returns true while both directions are open
func (e *Endpoint) IsReady() bool {
	return !e.in.isClosed() && !e.out.isClosed()
}

// Size returns the number of frames waiting to be received
func (e *Endpoint) Size() int {
	return len(e.in.frames)
}

// Close closes both directions; the peer observes ErrClosed after draining
func (e *Endpoint) Close() error {
	e.in.close()
	e.out.close()
	return nil
}

var _ transport.Transport = (*Endpoint)(nil)
