package canbits

import "slices"

// grayCode encodes the stuff count (mod 8) sent in CAN FD frames.
var grayCode = [8]uint8{0b000, 0b001, 0b011, 0b010, 0b110, 0b111, 0b101, 0b100}

// StuffCount returns the number of variable stuff bits (mod 8) found by the
// last stuffing pass.
func (bf *BitFrame) StuffCount() uint8 { return bf.stuffCount }

// EncodedStuffCount returns the Gray coded stuff count and its parity bit.
func (bf *BitFrame) EncodedStuffCount() (code uint8, parity BitValue) {
	code = grayCode[bf.stuffCount&7]
	return code, BitValue((code>>2 ^ code>>1 ^ code) & 1)
}

// stuffingEnds reports whether variable stuffing stops at a bit of type typ.
// Bit types are declared in frame order, so anything from the stop field on
// (including error and overload bits of a truncated frame) ends the scan.
func (bf *BitFrame) stuffingEnds(typ BitType) bool {
	if bf.flags.FD {
		return typ >= StuffCount
	}
	return typ >= CrcDelimiter
}

// insertVariableStuffBits inserts a stuff bit of opposite value after every
// five equal bits, from SOF up to the CRC delimiter (classical) or the stuff
// count (FD). A stuff bit starts the next run.
func (bf *BitFrame) insertVariableStuffBits() {
	bf.stuffCount = 0
	if len(bf.bits) == 0 {
		return
	}
	same, prev := 1, bf.bits[0].value
	for i := 1; i < len(bf.bits); i++ {
		b := bf.bits[i]
		if bf.stuffingEnds(b.typ) {
			break
		}
		if b.value == prev {
			same++
		} else {
			same, prev = 1, b.value
		}
		if same == 5 {
			sb := bf.newBit(b.typ, VariableStuff, prev.Opposite())
			bf.insertAt(i+1, sb)
			i++
			same, prev = 1, sb.value
			bf.stuffCount = (bf.stuffCount + 1) % 8
		}
	}
}

// writeStuffCount writes the Gray coded stuff count and its parity.
func (bf *BitFrame) writeStuffCount() {
	code, parity := bf.EncodedStuffCount()
	for i := 0; i < 3; i++ {
		if b := bf.BitOfNoStuffBits(i, StuffCount); b != nil {
			b.value = BitValue((code >> uint(2-i)) & 1)
		}
	}
	if b := bf.BitOfNoStuffBits(0, StuffParity); b != nil {
		b.value = parity
	}
}

// insertStuffCountStuffBits inserts the fixed stuff bits before the stuff
// count and after the parity bit.
func (bf *BitFrame) insertStuffCountStuffBits() {
	if i := bf.BitIndex(bf.BitOf(0, StuffCount)); i > 0 {
		bf.insertAt(i, bf.newBit(StuffCount, FixedStuff, bf.bits[i-1].value.Opposite()))
	}
	if i := bf.BitIndex(bf.BitOfNoStuffBits(0, StuffParity)); i >= 0 {
		bf.insertAt(i+1, bf.newBit(StuffParity, FixedStuff, bf.bits[i].value.Opposite()))
	}
}

// insertCrcStuffBits inserts a fixed stuff bit of opposite value after every
// fourth CRC bit.
func (bf *BitFrame) insertCrcStuffBits() {
	i := bf.BitIndex(bf.BitOf(0, Crc))
	if i < 0 {
		return
	}
	n := 0
	for ; i < len(bf.bits) && bf.bits[i].typ == Crc; i++ {
		if bf.bits[i].IsStuffBit() {
			continue
		}
		n++
		if n%4 == 0 && i+1 < len(bf.bits) && bf.bits[i+1].typ == Crc {
			bf.insertAt(i+1, bf.newBit(Crc, FixedStuff, bf.bits[i].value.Opposite()))
			i++
		}
	}
}

func (bf *BitFrame) removeStuffBits() {
	bf.bits = slices.DeleteFunc(bf.bits, func(b *Bit) bool { return b.IsStuffBit() })
	bf.stuffCount = 0
}
