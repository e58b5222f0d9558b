package canbits

import (
	"fmt"
	"strings"
)

// FrameFlags are the protocol flags of a frame.
type FrameFlags struct {
	FD       bool // CAN FD (EDL recessive) instead of classical CAN
	Extended bool // 29-bit identifier
	RTR      bool // remote transmission request, classical only
	BRS      bool // bit rate shift, FD only
	ESI      bool // error state indicator: true when transmitter is error passive
}

// Validate returns an error for combinations no node can transmit.
func (f FrameFlags) Validate() error {
	if f.FD && f.RTR {
		return fmt.Errorf("%w: RTR on CAN FD frame", ErrInvalidFlags)
	}
	if !f.FD && f.BRS {
		return fmt.Errorf("%w: BRS on classical frame", ErrInvalidFlags)
	}
	if !f.FD && f.ESI {
		return fmt.Errorf("%w: ESI on classical frame", ErrInvalidFlags)
	}
	return nil
}

// shiftsBitRate reports whether part of the frame is sent at the data rate.
func (f *FrameFlags) shiftsBitRate() bool {
	return f != nil && f.FD && f.BRS
}

func (f FrameFlags) String() string {
	var parts []string
	if f.FD {
		parts = append(parts, "FD")
	} else {
		parts = append(parts, "CAN")
	}
	if f.Extended {
		parts = append(parts, "EXT")
	} else {
		parts = append(parts, "BASE")
	}
	if f.RTR {
		parts = append(parts, "RTR")
	}
	if f.BRS {
		parts = append(parts, "BRS")
	}
	if f.ESI {
		parts = append(parts, "ESI")
	}
	return strings.Join(parts, " ")
}
