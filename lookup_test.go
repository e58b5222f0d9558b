package canbits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters_Basics(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{FD: true}, 0x000, make([]byte, 4))
	sof := bf.Bit(0)
	stuff := bf.StuffBit(0)
	fixed := bf.FixedStuffBit(0)
	require.NotNil(t, stuff)
	require.NotNil(t, fixed)

	if !ByType(Sof)(sof) || ByType(Crc)(sof) {
		t.Fatalf("ByType failure")
	}
	if !ByType(Crc, Sof)(sof) || ByType(Crc, Ack)(sof) {
		t.Fatalf("ByType set failure")
	}
	if !ByValue(Dominant)(sof) || ByValue(Recessive)(sof) {
		t.Fatalf("ByValue failure")
	}
	if !StuffBits()(stuff) || !StuffBits()(fixed) || StuffBits()(sof) {
		t.Fatalf("StuffBits failure")
	}
	if !VariableStuffBits()(stuff) || VariableStuffBits()(fixed) {
		t.Fatalf("VariableStuffBits failure")
	}
	if !FixedStuffBits()(fixed) || FixedStuffBits()(stuff) {
		t.Fatalf("FixedStuffBits failure")
	}
	if !NonStuffBits()(sof) || NonStuffBits()(stuff) {
		t.Fatalf("NonStuffBits failure")
	}
	if !And(ByType(Sof), ByValue(Dominant))(sof) || And(ByType(Sof), ByValue(Recessive))(sof) {
		t.Fatalf("And failure")
	}
	if !Or(ByType(Crc), ByType(Sof))(sof) || Or(ByType(Crc), ByType(Ack))(sof) {
		t.Fatalf("Or failure")
	}
	if Not(ByType(Sof))(sof) || !Not(ByType(Crc))(sof) {
		t.Fatalf("Not failure")
	}
	if !And(nil, ByType(Sof))(sof) || Not(nil)(sof) {
		t.Fatalf("nil operand failure")
	}

	assert.Equal(t, 0, bf.CountBits(ForcedBits()))
	bf.Bit(5).ForceCycle(2, Recessive)
	assert.Equal(t, []*Bit{bf.Bit(5)}, bf.FindBits(ForcedBits()))
	assert.Equal(t, bf.Len(), bf.CountBits(nil))
}

func TestBitFrame_LookupMisses(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{}, 0x123, []byte{1})
	assert.Nil(t, bf.Bit(-1))
	assert.Nil(t, bf.Bit(bf.Len()))
	assert.Nil(t, bf.BitOf(0, Brs))
	assert.Nil(t, bf.BitOf(-1, Sof))
	assert.Nil(t, bf.BitOf(1, Sof))
	assert.Nil(t, bf.FixedStuffBit(0))
	assert.Equal(t, -1, bf.BitIndex(nil))
	assert.Equal(t, 0, bf.FieldLength(StuffCount))
	assert.Empty(t, bf.FindBits(ByType(ActiveErrorFlag)))
}

func TestBitFrame_BitOfCountsStuffBits(t *testing.T) {
	// SOF and the first four identifier bits are dominant: a stuff bit
	// follows the fourth identifier bit.
	bf := newTestBitFrame(t, FrameFlags{}, 0x000, nil)
	assert.True(t, bf.BitOf(4, BaseIdentifier).IsStuffBit())
	assert.False(t, bf.BitOfNoStuffBits(4, BaseIdentifier).IsStuffBit())
	assert.Equal(t, bf.BitOf(5, BaseIdentifier), bf.BitOfNoStuffBits(4, BaseIdentifier))
	assert.Equal(t, bf.StuffBit(0), bf.BitOf(4, BaseIdentifier))
	assert.Equal(t, 13, bf.FieldLength(BaseIdentifier))
}

func TestBitType_Names(t *testing.T) {
	assert.Equal(t, "CRC delimiter", CrcDelimiter.String())
	assert.Equal(t, "ID", BaseIdentifier.ShortName())
	assert.True(t, Ack.IsSingleBitField())
	assert.False(t, Dlc.IsSingleBitField())
	assert.Equal(t, "Unknown", BitType(200).String())

	// Stuffing and CRC scans rely on frame order.
	order := []BitType{Sof, BaseIdentifier, Dlc, DataField, StuffCount, StuffParity, Crc, CrcDelimiter, Intermission, ActiveErrorFlag}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Fatalf("%s declared after %s", order[i-1], order[i])
		}
	}
}
