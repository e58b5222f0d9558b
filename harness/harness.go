// Package harness pairs the bits a compliance test drives onto the bus with
// the bits it expects the device under test to transmit, and runs one such
// step over a canbits.Transport.
package harness

import (
	"context"
	"fmt"

	"github.com/notnil/canbits"
)

// Direction says which side transmits the frame of a step.
type Direction uint8

const (
	// Receive: the test transmits, the device acknowledges.
	Receive Direction = iota
	// Transmit: the device transmits, the test acknowledges.
	Transmit
)

func (d Direction) String() string {
	if d == Transmit {
		return "transmit"
	}
	return "receive"
}

// Step is one elementary test step. Driver is driven onto the bus, Monitor is
// what the device is expected to transmit meanwhile. Both may be mutated
// before Run.
type Step struct {
	Frame     *canbits.Frame
	Direction Direction
	Driver    *canbits.BitFrame
	Monitor   *canbits.BitFrame
}

// Result is the outcome of a step.
type Result struct {
	Monitored canbits.Trace
	Passed    bool
	Mismatch  canbits.Mismatch // valid when !Passed
}

// NewStep builds the driver and monitor bits for frame. cfg is referenced by
// every bit of the step and must not change while the step is used.
//
// For Receive the monitor only drives a dominant ACK and the driver carries
// the same dominant ACK as seen on the bus. For Transmit the roles are
// swapped.
func NewStep(frame *canbits.Frame, cfg *canbits.TimingConfig, dir Direction) (*Step, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil timing config", canbits.ErrInvalidTiming)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	driver, err := canbits.NewBitFrame(frame, &cfg.Nominal, &cfg.Data)
	if err != nil {
		return nil, err
	}
	monitor, err := canbits.NewBitFrame(frame, &cfg.Nominal, &cfg.Data)
	if err != nil {
		return nil, err
	}
	switch dir {
	case Receive:
		monitor.TurnReceivedFrame()
		if ack := driver.BitOf(0, canbits.Ack); ack != nil {
			ack.SetValue(canbits.Dominant)
		}
	case Transmit:
		driver.TurnReceivedFrame()
		if ack := monitor.BitOf(0, canbits.Ack); ack != nil {
			ack.SetValue(canbits.Dominant)
		}
	default:
		return nil, fmt.Errorf("harness: unknown direction %d", dir)
	}
	return &Step{Frame: frame, Direction: dir, Driver: driver, Monitor: monitor}, nil
}

// Run drives the driver trace over t and compares the monitored trace with
// the monitor frame cycle for cycle. A mismatch is a test failure, not an
// error; errors come from the transport.
func (s *Step) Run(ctx context.Context, t canbits.Transport) (Result, error) {
	got, err := t.Exchange(ctx, s.Driver.Trace())
	if err != nil {
		return Result{}, err
	}
	m, ok := s.Monitor.Compare(got)
	return Result{Monitored: got, Passed: ok, Mismatch: m}, nil
}

// Transmits returns a responder for a simulated device that transmits bf
// regardless of what is driven.
func Transmits(bf *canbits.BitFrame) canbits.Responder {
	tr := bf.Trace()
	return func(canbits.Trace) canbits.Trace { return tr }
}
