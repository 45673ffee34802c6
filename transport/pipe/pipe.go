// Package pipe implements transport.Transport on top of a pair of OS pipes
// so that an orchestrator can talk to a worker running in a child process.
package pipe

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/viant/brigade/protocol"
	"github.com/viant/brigade/transport"
)

const (
	// ChildInFD is the descriptor number of the worker inbound stream in the child process.
	ChildInFD = 3
	// ChildOutFD is the descriptor number of the worker outbound stream in the child process.
	ChildOutFD = 4

	defaultBuffer = 64
)

// Endpoint represents one side of a pipe pair
type Endpoint struct {
	reader   *os.File
	writer   *os.File
	frames   chan []byte
	done     chan struct{}
	stopped  chan struct{}
	writeMu  sync.Mutex
	closed   atomic.Bool
	eof      atomic.Bool
	lastErr  atomic.Value
	closeOne sync.Once
}

// New creates an endpoint reading from reader and writing to writer. A
// background goroutine assembles complete frames so Receive never blocks.
func New(reader, writer *os.File) *Endpoint {
	ret := &Endpoint{
		reader:  reader,
		writer:  writer,
		frames:  make(chan []byte, defaultBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go ret.readLoop()
	return ret
}

// Open creates the worker side endpoint from the inherited descriptors.
func Open() (*Endpoint, error) {
	in := os.NewFile(ChildInFD, "brigade-in")
	out := os.NewFile(ChildOutFD, "brigade-out")
	if in == nil || out == nil {
		return nil, fmt.Errorf("inherited descriptors %d/%d are not available", ChildInFD, ChildOutFD)
	}
	return New(in, out), nil
}

// readLoop exits on a read error or once Close is called, even when nobody
// drains frames.
func (e *Endpoint) readLoop() {
	defer close(e.stopped)
	defer close(e.frames)
	for {
		payload, err := protocol.ReadFrame(e.reader)
		if err != nil {
			e.lastErr.Store(err)
			e.eof.Store(true)
			return
		}
		select {
		case e.frames <- payload:
		case <-e.done:
			return
		}
	}
}

// Send writes a whole frame
func (e *Endpoint) Send(payload []byte) error {
	if e.closed.Load() {
		return transport.ErrClosed
	}
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return protocol.WriteFrame(e.writer, payload)
}

// Receive returns the next buffered frame or nil
func (e *Endpoint) Receive() ([]byte, error) {
	select {
	case payload, ok := <-e.frames:
		if !ok {
			return nil, transport.ErrClosed
		}
		return payload, nil
	default:
		return nil, nil
	}
}

// IsReady returns true while neither side has been closed
func (e *Endpoint) IsReady() bool {
	return !e.closed.Load() && !e.eof.Load()
}

// Err returns the error that stopped the reader, if any.
func (e *Endpoint) Err() error {
	if err, ok := e.lastErr.Load().(error); ok {
		return err
	}
	return nil
}

// Close releases both descriptors
func (e *Endpoint) Close() error {
	var err error
	e.closeOne.Do(func() {
		e.closed.Store(true)
		close(e.done)
		werr := e.writer.Close()
		rerr := e.reader.Close()
		if werr != nil {
			err = werr
		} else {
			err = rerr
		}
	})
	return err
}

// Pair holds the orchestrator endpoint and the descriptors handed to the worker.
type Pair struct {
	Parent   *Endpoint
	ChildIn  *os.File
	ChildOut *os.File
}

// NewPair creates the two pipes used by one worker.
func NewPair() (*Pair, error) {
	toWorkerR, toWorkerW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create inbound pipe: %w", err)
	}
	fromWorkerR, fromWorkerW, err := os.Pipe()
	if err != nil {
		_ = toWorkerR.Close()
		_ = toWorkerW.Close()
		return nil, fmt.Errorf("failed to create outbound pipe: %w", err)
	}
	return &Pair{
		Parent:   New(fromWorkerR, toWorkerW),
		ChildIn:  toWorkerR,
		ChildOut: fromWorkerW,
	}, nil
}

// ChildFiles returns the descriptors in the order expected by Open.
func (p *Pair) ChildFiles() []*os.File {
	return []*os.File{p.ChildIn, p.ChildOut}
}

// ReleaseChild closes the worker ends in the current process once the
// worker owns its own copies.
func (p *Pair) ReleaseChild() error {
	inErr := p.ChildIn.Close()
	outErr := p.ChildOut.Close()
	if inErr != nil {
		return inErr
	}
	return outErr
}

var _ transport.Transport = (*Endpoint)(nil)
