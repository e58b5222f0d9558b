package canbits

import (
	"bytes"
	"fmt"
	"strings"
)

// MaxDataLen is the largest payload of a CAN FD frame.
const MaxDataLen = 64

// Validation limits.
const (
	maxStdID = 0x7FF
	maxExtID = 0x1FFFFFFF
)

var dlcTable = [16]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// DlcToDataLen returns the payload length encoded by dlc. Classical frames
// carry at most 8 bytes whatever the DLC.
func DlcToDataLen(dlc uint8, fd bool) (int, error) {
	if dlc > 15 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDLC, dlc)
	}
	n := dlcTable[dlc]
	if !fd && n > 8 {
		n = 8
	}
	return n, nil
}

// DataLenToDlc returns the DLC encoding exactly n payload bytes.
func DataLenToDlc(n int, fd bool) (uint8, error) {
	limit := 8
	if fd {
		limit = MaxDataLen
	}
	if n < 0 || n > limit {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLen, n)
	}
	for dlc, l := range dlcTable {
		if l == n {
			return uint8(dlc), nil
		}
	}
	return 0, fmt.Errorf("%w: %d has no DLC", ErrInvalidLen, n)
}

// Frame is the logical content of a CAN or CAN FD frame. The zero value is a
// classical base frame with identifier 0 and no data. All setters validate
// their input and keep the previous state on error.
type Frame struct {
	flags   FrameFlags
	id      uint32
	dlc     uint8
	dataLen int
	data    [MaxDataLen]byte
}

// NewFrame builds a frame whose DLC is derived from len(data).
func NewFrame(flags FrameFlags, id uint32, data []byte) (*Frame, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	f := &Frame{flags: flags}
	if err := f.SetIdentifier(id); err != nil {
		return nil, err
	}
	if err := f.SetData(data); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFrame constructs a Frame and panics if invalid. Convenience for tests
// and examples.
func MustFrame(flags FrameFlags, id uint32, data []byte) *Frame {
	f, err := NewFrame(flags, id, data)
	if err != nil {
		panic(err)
	}
	return f
}

// Flags returns the frame flags.
func (f *Frame) Flags() FrameFlags { return f.flags }

// Identifier returns the 11 or 29-bit identifier.
func (f *Frame) Identifier() uint32 { return f.id }

// Dlc returns the data length code.
func (f *Frame) Dlc() uint8 { return f.dlc }

// DataLength returns the payload length in bytes.
func (f *Frame) DataLength() int { return f.dataLen }

// Data returns a copy of the payload.
func (f *Frame) Data() []byte {
	out := make([]byte, f.dataLen)
	copy(out, f.data[:f.dataLen])
	return out
}

// DataByte returns payload byte i, or 0 when i is outside the payload.
func (f *Frame) DataByte(i int) byte {
	if i < 0 || i >= f.dataLen {
		return 0
	}
	return f.data[i]
}

// SetFlags replaces the flags. Switching to base identifiers fails if the
// current identifier does not fit 11 bits; the data length is re-derived from
// the DLC for the new frame kind.
func (f *Frame) SetFlags(flags FrameFlags) error {
	if err := flags.Validate(); err != nil {
		return err
	}
	if !flags.Extended && f.id > maxStdID {
		return fmt.Errorf("%w: 0x%X does not fit a base identifier", ErrInvalidID, f.id)
	}
	n, err := DlcToDataLen(f.dlc, flags.FD)
	if err != nil {
		return err
	}
	f.flags = flags
	f.dataLen = n
	return nil
}

// SetIdentifier sets the identifier, checking it against the identifier kind.
func (f *Frame) SetIdentifier(id uint32) error {
	limit := uint32(maxStdID)
	if f.flags.Extended {
		limit = maxExtID
	}
	if id > limit {
		return fmt.Errorf("%w: 0x%X", ErrInvalidID, id)
	}
	f.id = id
	return nil
}

// SetDlc sets the DLC and recomputes the data length.
func (f *Frame) SetDlc(dlc uint8) error {
	n, err := DlcToDataLen(dlc, f.flags.FD)
	if err != nil {
		return err
	}
	f.dlc = dlc
	f.dataLen = n
	return nil
}

// SetDataLength sets the data length and recomputes the DLC. The length must
// be one the DLC table can encode.
func (f *Frame) SetDataLength(n int) error {
	dlc, err := DataLenToDlc(n, f.flags.FD)
	if err != nil {
		return err
	}
	f.dlc = dlc
	f.dataLen = n
	return nil
}

// SetData replaces the payload; its length sets the DLC.
func (f *Frame) SetData(data []byte) error {
	if err := f.SetDataLength(len(data)); err != nil {
		return err
	}
	f.data = [MaxDataLen]byte{}
	copy(f.data[:], data)
	return nil
}

// SetDataByte sets payload byte i.
func (f *Frame) SetDataByte(i int, b byte) error {
	if i < 0 || i >= f.dataLen {
		return fmt.Errorf("%w: byte %d of %d", ErrInvalidLen, i, f.dataLen)
	}
	f.data[i] = b
	return nil
}

// Equal reports whether both frames carry the same flags, identifier, DLC and
// payload.
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.flags == o.flags && f.id == o.id && f.dlc == o.dlc &&
		f.dataLen == o.dataLen && bytes.Equal(f.data[:f.dataLen], o.data[:o.dataLen])
}

// String formats the frame as "ID [len] DATA..." followed by flag markers.
func (f *Frame) String() string {
	var b strings.Builder
	if f.flags.Extended {
		fmt.Fprintf(&b, "%08X", f.id)
	} else {
		fmt.Fprintf(&b, "%03X", f.id)
	}
	fmt.Fprintf(&b, " [%d]", f.dataLen)
	if f.flags.RTR {
		b.WriteString(" RTR")
	} else {
		for _, d := range f.data[:f.dataLen] {
			fmt.Fprintf(&b, " %02X", d)
		}
	}
	if f.flags.FD {
		b.WriteString(" FD")
	}
	if f.flags.BRS {
		b.WriteString(" BRS")
	}
	if f.flags.ESI {
		b.WriteString(" ESI")
	}
	return b.String()
}
