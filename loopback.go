package canbits

import (
	"context"
	"sync"
)

// Responder returns the trace a simulated device transmits while drive is on
// the bus.
type Responder func(drive Trace) Trace

// Exchange records one loopback exchange.
type Exchange struct {
	Drive   Trace // driven by the test
	Monitor Trace // transmitted by the device
	Bus     Trace // wired-AND of both
}

// LoopbackTransport is an in-memory bus for tests and simulations. The
// monitored trace is what the responder transmits; without a responder the
// device echoes the driven trace.
type LoopbackTransport struct {
	mu      sync.Mutex
	closed  bool
	dut     Responder
	history []Exchange
}

// NewLoopbackTransport creates a loopback transport. dut may be nil.
func NewLoopbackTransport(dut Responder) *LoopbackTransport {
	return &LoopbackTransport{dut: dut}
}

// Exchange runs the responder and records the resulting bus values.
func (l *LoopbackTransport) Exchange(ctx context.Context, drive Trace) (Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	dut := l.dut
	l.mu.Unlock()

	drive = append(Trace(nil), drive...)
	mon := drive
	if dut != nil {
		mon = dut(drive)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	l.history = append(l.history, Exchange{Drive: drive, Monitor: mon, Bus: WiredAnd(drive, mon)})
	return append(Trace(nil), mon...), nil
}

// History returns every exchange so far.
func (l *LoopbackTransport) History() []Exchange {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Exchange, len(l.history))
	copy(out, l.history)
	return out
}

// Close closes the transport. It is safe to call more than once.
func (l *LoopbackTransport) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}
