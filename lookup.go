package canbits

// Len returns the number of bits in the frame.
func (bf *BitFrame) Len() int { return len(bf.bits) }

// Bits returns the bits in order. The slice is a copy; the bits are not.
func (bf *BitFrame) Bits() []*Bit {
	out := make([]*Bit, len(bf.bits))
	copy(out, bf.bits)
	return out
}

// Bit returns the bit at index or nil.
func (bf *BitFrame) Bit(index int) *Bit {
	if index < 0 || index >= len(bf.bits) {
		return nil
	}
	return bf.bits[index]
}

// BitOf returns bit n (from 0) of field typ, counting stuff bits, or nil.
func (bf *BitFrame) BitOf(n int, typ BitType) *Bit {
	return bf.nthMatch(n, ByType(typ))
}

// BitOfNoStuffBits returns logical bit n of field typ, skipping stuff bits,
// or nil.
func (bf *BitFrame) BitOfNoStuffBits(n int, typ BitType) *Bit {
	return bf.nthMatch(n, And(ByType(typ), NonStuffBits()))
}

// StuffBit returns variable stuff bit n of the frame or nil.
func (bf *BitFrame) StuffBit(n int) *Bit {
	return bf.nthMatch(n, VariableStuffBits())
}

// FixedStuffBit returns fixed stuff bit n of the frame or nil.
func (bf *BitFrame) FixedStuffBit(n int) *Bit {
	return bf.nthMatch(n, FixedStuffBits())
}

// BitIndex returns the position of b in the frame, or -1.
func (bf *BitFrame) BitIndex(b *Bit) int {
	if b == nil {
		return -1
	}
	for i, x := range bf.bits {
		if x == b {
			return i
		}
	}
	return -1
}

// FieldLength returns the number of bits of type typ, stuff bits included.
func (bf *BitFrame) FieldLength(typ BitType) int {
	return bf.CountBits(ByType(typ))
}

// FindBits returns every bit matching filter, in frame order.
func (bf *BitFrame) FindBits(filter BitFilter) []*Bit {
	var out []*Bit
	for _, b := range bf.bits {
		if filter == nil || filter(b) {
			out = append(out, b)
		}
	}
	return out
}

// CountBits returns the number of bits matching filter.
func (bf *BitFrame) CountBits(filter BitFilter) int {
	n := 0
	for _, b := range bf.bits {
		if filter == nil || filter(b) {
			n++
		}
	}
	return n
}

// LenCycles returns the length of the frame in clock cycles.
func (bf *BitFrame) LenCycles() int {
	n := 0
	for _, b := range bf.bits {
		n += b.LenCycles()
	}
	return n
}

func (bf *BitFrame) nthMatch(n int, filter BitFilter) *Bit {
	if n < 0 {
		return nil
	}
	for _, b := range bf.bits {
		if filter(b) {
			if n == 0 {
				return b
			}
			n--
		}
	}
	return nil
}
