package canbits

// CRC generator polynomials, including the implicit top term.
const (
	crc15Poly = 0xC599
	crc17Poly = 0x3685B
	crc21Poly = 0x302899
)

// crcStep shifts one bit into a width-bit CRC register.
func crcStep(crc uint32, v BitValue, width uint, poly uint32) uint32 {
	mask := uint32(1)<<width - 1
	next := uint32(v) ^ (crc>>(width-1))&1
	crc = (crc << 1) & mask
	if next == 1 {
		crc ^= poly & mask
	}
	return crc
}

// CalculateCrc runs the CRC-15, CRC-17 and CRC-21 registers over the bits from
// SOF up to the first CRC bit and returns the one the frame uses.
//
// CRC-15 (classical) is computed over regular bits only. CRC-17 and CRC-21
// (FD) cover variable stuff bits too and skip only fixed stuff bits.
func (bf *BitFrame) CalculateCrc() uint32 {
	crc15 := uint32(0)
	crc17 := uint32(1) << 16
	crc21 := uint32(1) << 20
	for _, b := range bf.bits {
		if b.typ >= Crc {
			break
		}
		if b.stuff == NoStuff {
			crc15 = crcStep(crc15, b.value, 15, crc15Poly)
		}
		if b.stuff != FixedStuff {
			crc17 = crcStep(crc17, b.value, 17, crc17Poly)
			crc21 = crcStep(crc21, b.value, 21, crc21Poly)
		}
	}
	bf.crc15, bf.crc17, bf.crc21 = crc15, crc17, crc21
	return bf.Crc()
}

// Crc returns the CRC selected by frame kind and data length from the last
// CalculateCrc run.
func (bf *BitFrame) Crc() uint32 {
	switch bf.CrcLength() {
	case 15:
		return bf.crc15
	case 17:
		return bf.crc17
	default:
		return bf.crc21
	}
}

// Crc15, Crc17 and Crc21 return the individual registers of the last
// CalculateCrc run.
func (bf *BitFrame) Crc15() uint32 { return bf.crc15 }
func (bf *BitFrame) Crc17() uint32 { return bf.crc17 }
func (bf *BitFrame) Crc21() uint32 { return bf.crc21 }

// writeCrc computes the CRC and writes it MSB first into the regular CRC bits.
func (bf *BitFrame) writeCrc() {
	crc := bf.CalculateCrc()
	n := bf.CrcLength()
	i := 0
	for _, b := range bf.bits {
		if i >= n {
			break
		}
		if b.typ != Crc || b.IsStuffBit() {
			continue
		}
		b.value = BitValue((crc >> uint(n-1-i)) & 1)
		i++
	}
}

// TransmittedCrc reads the CRC value currently held by the regular CRC bits.
func (bf *BitFrame) TransmittedCrc() uint32 {
	var crc uint32
	for _, b := range bf.bits {
		if b.typ == Crc && !b.IsStuffBit() {
			crc = crc<<1 | uint32(b.value)
		}
	}
	return crc
}
