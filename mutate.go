package canbits

import (
	"fmt"
	"slices"
)

func (bf *BitFrame) checkIndex(index int) error {
	if index < 0 || index >= len(bf.bits) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(bf.bits))
	}
	return nil
}

// InsertBit inserts a regular bit at index; index may equal Len to append.
func (bf *BitFrame) InsertBit(index int, typ BitType, v BitValue) (*Bit, error) {
	if index < 0 || index > len(bf.bits) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(bf.bits))
	}
	b := bf.newBit(typ, NoStuff, v)
	bf.insertAt(index, b)
	return b, nil
}

// AppendBit appends a regular bit.
func (bf *BitFrame) AppendBit(typ BitType, v BitValue) *Bit {
	return bf.push(typ, v)
}

// RemoveBit removes the bit at index.
func (bf *BitFrame) RemoveBit(index int) error {
	if err := bf.checkIndex(index); err != nil {
		return err
	}
	bf.bits = slices.Delete(bf.bits, index, index+1)
	return nil
}

// RemoveBitsFrom removes the bit at index and every bit after it.
func (bf *BitFrame) RemoveBitsFrom(index int) error {
	if err := bf.checkIndex(index); err != nil {
		return err
	}
	clear(bf.bits[index:])
	bf.bits = bf.bits[:index]
	return nil
}

// InsertActiveErrorFrame replaces the bits from index on with an active error
// flag (6 dominant bits) and an error delimiter (8 recessive bits).
func (bf *BitFrame) InsertActiveErrorFrame(index int) error {
	return bf.insertFlag(index, ActiveErrorFlag, Dominant, ErrorDelimiter)
}

// InsertPassiveErrorFrame replaces the bits from index on with a passive error
// flag (6 recessive bits) and an error delimiter (8 recessive bits).
func (bf *BitFrame) InsertPassiveErrorFrame(index int) error {
	return bf.insertFlag(index, PassiveErrorFlag, Recessive, ErrorDelimiter)
}

// InsertOverloadFrame replaces the bits from index on with an overload flag
// and delimiter. The bit at index must be an intermission, error delimiter or
// overload delimiter bit.
func (bf *BitFrame) InsertOverloadFrame(index int) error {
	if err := bf.checkIndex(index); err != nil {
		return err
	}
	if t := bf.bits[index].typ; !t.acceptsOverload() {
		return fmt.Errorf("%w: overload frame on %s", ErrWrongBitType, t)
	}
	return bf.insertFlag(index, OverloadFlag, Dominant, OverloadDelimiter)
}

// insertFlag truncates the frame at index and appends a flag and its
// delimiter. A data rate Phase2 of the preceding bit is resized to nominal
// since the bit rate switches back at that bit's sample point.
func (bf *BitFrame) insertFlag(index int, flag BitType, v BitValue, delim BitType) error {
	if err := bf.checkIndex(index); err != nil {
		return err
	}
	if index > 0 {
		bf.bits[index-1].CorrectPh2LenToNominal()
	}
	clear(bf.bits[index:])
	bf.bits = bf.bits[:index]
	bf.pushN(flag, v, flagLen)
	bf.pushN(delim, Recessive, delimiterLen)
	return nil
}

// LooseArbitration turns the frame into what a node that loses arbitration at
// index sends: recessive from index on, apart from a dominant ACK. The bit at
// index must belong to the arbitration field.
func (bf *BitFrame) LooseArbitration(index int) error {
	if err := bf.checkIndex(index); err != nil {
		return err
	}
	if t := bf.bits[index].typ; !t.isArbitration() {
		return fmt.Errorf("%w: arbitration lost on %s", ErrWrongBitType, t)
	}
	for _, b := range bf.bits[index:] {
		b.value = Recessive
	}
	if ack := bf.BitOf(0, Ack); ack != nil {
		ack.value = Dominant
	}
	return nil
}

// TurnReceivedFrame turns the frame into what a receiver sends: recessive
// everywhere except the first ACK bit.
func (bf *BitFrame) TurnReceivedFrame() {
	for _, b := range bf.bits {
		b.value = Recessive
	}
	if ack := bf.BitOf(0, Ack); ack != nil {
		ack.value = Dominant
	}
}

// AppendBitFrame appends a copy of the bits of other. The copies keep the
// flags and timings of other.
func (bf *BitFrame) AppendBitFrame(other *BitFrame) {
	if other == nil {
		return
	}
	flags := new(FrameFlags)
	*flags = other.flags
	src := slices.Clone(other.bits)
	for _, b := range src {
		bf.bits = append(bf.bits, b.clone(flags))
	}
}

// AppendSuspendTransmission appends the 8 recessive bits an error passive
// transmitter waits before the next transmission.
func (bf *BitFrame) AppendSuspendTransmission() {
	bf.pushN(SuspendTransmission, Recessive, suspendLen)
}

// FlipBitAndCompensate flips the bit at index. When the flip creates a
// recessive to dominant edge at the start of the bit, the receiver sees that
// edge inputDelay cycles late and would resynchronize; the preceding bit is
// shortened by inputDelay cycles so the edge arrives inside the receiver's
// synchronization segment instead.
func (bf *BitFrame) FlipBitAndCompensate(index int, inputDelay int) error {
	if err := bf.checkIndex(index); err != nil {
		return err
	}
	b := bf.bits[index]
	b.FlipValue()
	if index == 0 || inputDelay <= 0 {
		return nil
	}
	if prev := bf.bits[index-1]; prev.value == Recessive && b.value == Dominant {
		prev.ShortenCycles(inputDelay)
	}
	return nil
}
