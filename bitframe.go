package canbits

import (
	"fmt"
	"slices"
	"strings"
)

// Number of bits in the fixed-length fields appended by the frame builders.
const (
	eofLen          = 7
	intermissionLen = 3
	flagLen         = 6
	delimiterLen    = 8
	suspendLen      = 8
)

// BitFrame is the bit sequence of one frame. It owns its bits; the bit timings
// are shared with the caller and must not change while the frame is in use.
//
// Bit pointers obtained from a BitFrame stay valid across insertions and
// removals of other bits; use BitIndex to find where a bit currently is.
type BitFrame struct {
	frame   Frame
	flags   FrameFlags
	nominal *BitTiming
	data    *BitTiming
	bits    []*Bit

	crc15      uint32
	crc17      uint32
	crc21      uint32
	stuffCount uint8
}

// NewBitFrame builds, stuffs and CRC-protects the bits of frame.
func NewBitFrame(frame *Frame, nominal, data *BitTiming) (*BitFrame, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrInvalidFlags)
	}
	if nominal == nil || data == nil {
		return nil, fmt.Errorf("%w: nil bit timing", ErrInvalidTiming)
	}
	if err := nominal.Validate(); err != nil {
		return nil, fmt.Errorf("nominal: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	if err := frame.flags.Validate(); err != nil {
		return nil, err
	}
	bf := &BitFrame{
		frame:   *frame,
		flags:   frame.flags,
		nominal: nominal,
		data:    data,
	}
	bf.Construct()
	return bf, nil
}

// Construct lays out the frame bits and then inserts stuff bits, the stuff
// count and the CRC in the order the frame kind requires.
func (bf *BitFrame) Construct() {
	bf.BuildFrameBits()
	bf.stuffAndCrc(true)
}

// Update removes every stuff bit and derives stuffing, stuff count and CRC
// again from the current bit values. With recalcCrc false the CRC bits keep
// their values, which is how a frame with a wrong CRC is produced.
func (bf *BitFrame) Update(recalcCrc bool) {
	bf.removeStuffBits()
	bf.stuffAndCrc(recalcCrc)
}

func (bf *BitFrame) stuffAndCrc(recalcCrc bool) {
	if !bf.flags.FD {
		// Classical stuff bits are not covered by the CRC, so the CRC is
		// fixed before stuffing.
		if recalcCrc {
			bf.writeCrc()
		}
		bf.insertVariableStuffBits()
		return
	}
	bf.insertVariableStuffBits()
	bf.writeStuffCount()
	bf.insertStuffCountStuffBits()
	if recalcCrc {
		bf.writeCrc()
	}
	bf.insertCrcStuffBits()
}

// BuildFrameBits replaces the bits with the unstuffed field layout of the
// frame. CRC, stuff count and stuff parity bits are recessive placeholders.
func (bf *BitFrame) BuildFrameBits() {
	clear(bf.bits)
	bf.bits = bf.bits[:0]

	f := &bf.frame
	fl := bf.flags

	bf.push(Sof, Dominant)
	baseID, extID := f.id, uint32(0)
	if fl.Extended {
		baseID, extID = f.id>>18, f.id&0x3FFFF
	}
	bf.pushField(BaseIdentifier, baseID, 11)

	rtr := valueOf(fl.RTR)
	switch {
	case !fl.FD && !fl.Extended:
		bf.push(Rtr, rtr)
		bf.push(Ide, Dominant)
		bf.push(R0, Dominant)
	case !fl.FD && fl.Extended:
		bf.push(Srr, Recessive)
		bf.push(Ide, Recessive)
		bf.pushField(IdentifierExtension, extID, 18)
		bf.push(Rtr, rtr)
		bf.push(R1, Dominant)
		bf.push(R0, Dominant)
	case fl.FD && !fl.Extended:
		bf.push(R1, Dominant)
		bf.push(Ide, Dominant)
		bf.push(Edl, Recessive)
		bf.push(R0, Dominant)
	default:
		bf.push(Srr, Recessive)
		bf.push(Ide, Recessive)
		bf.pushField(IdentifierExtension, extID, 18)
		bf.push(R1, Dominant)
		bf.push(Edl, Recessive)
		bf.push(R0, Dominant)
	}
	if fl.FD {
		bf.push(Brs, valueOf(fl.BRS))
		bf.push(Esi, valueOf(fl.ESI))
	}
	bf.pushField(Dlc, uint32(f.dlc), 4)
	if !fl.RTR {
		for _, d := range f.data[:f.dataLen] {
			bf.pushField(DataField, uint32(d), 8)
		}
	}
	if fl.FD {
		for i := 0; i < 3; i++ {
			bf.push(StuffCount, Recessive)
		}
		bf.push(StuffParity, Recessive)
	}
	for i := 0; i < bf.CrcLength(); i++ {
		bf.push(Crc, Recessive)
	}
	bf.push(CrcDelimiter, Recessive)
	bf.push(Ack, Recessive)
	bf.push(AckDelimiter, Recessive)
	bf.pushN(Eof, Recessive, eofLen)
	bf.pushN(Intermission, Recessive, intermissionLen)
}

func valueOf(recessive bool) BitValue {
	if recessive {
		return Recessive
	}
	return Dominant
}

func (bf *BitFrame) newBit(typ BitType, stuff StuffKind, v BitValue) *Bit {
	return newBit(typ, stuff, v, &bf.flags, bf.nominal, bf.data)
}

func (bf *BitFrame) push(typ BitType, v BitValue) *Bit {
	b := bf.newBit(typ, NoStuff, v)
	bf.bits = append(bf.bits, b)
	return b
}

func (bf *BitFrame) pushN(typ BitType, v BitValue, n int) {
	for i := 0; i < n; i++ {
		bf.push(typ, v)
	}
}

// pushField appends the n low bits of value, most significant first.
func (bf *BitFrame) pushField(typ BitType, value uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bf.push(typ, BitValue((value>>uint(i))&1))
	}
}

func (bf *BitFrame) insertAt(index int, b *Bit) {
	bf.bits = slices.Insert(bf.bits, index, b)
}

// CrcLength returns the number of CRC bits the frame carries: 15 for
// classical frames, 17 for FD frames up to 16 data bytes and 21 above.
func (bf *BitFrame) CrcLength() int {
	switch {
	case !bf.flags.FD:
		return 15
	case bf.frame.dataLen <= 16:
		return 17
	default:
		return 21
	}
}

// Frame returns a copy of the frame the bits were built from.
func (bf *BitFrame) Frame() *Frame {
	f := bf.frame
	return &f
}

// Flags returns the frame flags the bits were built with.
func (bf *BitFrame) Flags() FrameFlags { return bf.flags }

// NominalTiming returns the nominal bit timing.
func (bf *BitFrame) NominalTiming() *BitTiming { return bf.nominal }

// DataTiming returns the data bit timing.
func (bf *BitFrame) DataTiming() *BitTiming { return bf.data }

// Clone returns a deep copy of the frame. Bit timings stay shared.
func (bf *BitFrame) Clone() *BitFrame {
	c := *bf
	c.bits = make([]*Bit, len(bf.bits))
	for i, b := range bf.bits {
		c.bits[i] = b.clone(&c.flags)
	}
	return &c
}

// String renders the bits grouped by field, for example
// "SOF:0 ID:10101[0]... RTR:0". Stuff bits are shown in brackets.
func (bf *BitFrame) String() string {
	var sb strings.Builder
	for i, b := range bf.bits {
		if i == 0 || bf.bits[i-1].typ != b.typ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.typ.ShortName())
			sb.WriteByte(':')
		}
		if b.IsStuffBit() {
			sb.WriteByte('[')
			sb.WriteString(b.String())
			sb.WriteByte(']')
		} else {
			sb.WriteString(b.String())
		}
	}
	return sb.String()
}
