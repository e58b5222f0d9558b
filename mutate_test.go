package canbits

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitFrame_InsertErrorFrame(t *testing.T) {
	for _, passive := range []bool{false, true} {
		for _, index := range []int{0, 1, 12, 30} {
			bf := newTestBitFrame(t, FrameFlags{}, 0x321, []byte{0xAA, 0x55})
			var err error
			flag, flagValue := ActiveErrorFlag, Dominant
			if passive {
				flag, flagValue = PassiveErrorFlag, Recessive
				err = bf.InsertPassiveErrorFrame(index)
			} else {
				err = bf.InsertActiveErrorFrame(index)
			}
			if err != nil {
				t.Fatalf("index %d: %v", index, err)
			}
			if bf.Len() != index+14 {
				t.Fatalf("index %d: Len() = %d, want %d", index, bf.Len(), index+14)
			}
			for i := index; i < index+6; i++ {
				if b := bf.Bit(i); b.Type() != flag || b.Value() != flagValue {
					t.Fatalf("index %d: bit %d = %s %s", index, i, b.Type(), b)
				}
			}
			for i := index + 6; i < index+14; i++ {
				if b := bf.Bit(i); b.Type() != ErrorDelimiter || b.Value() != Recessive {
					t.Fatalf("index %d: bit %d = %s %s", index, i, b.Type(), b)
				}
			}
		}
	}
}

func TestBitFrame_InsertErrorFrameOutOfRange(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{}, 0x321, nil)
	before := bf.String()
	for _, index := range []int{-1, bf.Len()} {
		if err := bf.InsertActiveErrorFrame(index); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: err = %v", index, err)
		}
	}
	assert.Equal(t, before, bf.String())
}

func TestBitFrame_ErrorFrameAfterDataRateBit(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{FD: true, BRS: true}, 0x321, []byte{0x12, 0x34})
	cfg := DefaultTimingConfig()

	prev := bf.BitOf(3, DataField)
	require.Equal(t, cfg.Data.Ph2*cfg.Data.Brp, prev.PhaseLenCycles(Phase2))

	require.NoError(t, bf.InsertActiveErrorFrame(bf.BitIndex(prev)+1))
	assert.Equal(t, cfg.Nominal.Ph2*cfg.Nominal.Brp, prev.PhaseLenCycles(Phase2))
	assert.Equal(t, cfg.Nominal.BitLenCycles(), bf.BitOf(0, ActiveErrorFlag).LenCycles())
}

func TestBitFrame_InsertOverloadFrame(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{}, 0x7FF, []byte{1})
	before := bf.Len()

	if err := bf.InsertOverloadFrame(0); !errors.Is(err, ErrWrongBitType) {
		t.Fatalf("overload on SOF: err = %v", err)
	}
	if err := bf.InsertOverloadFrame(bf.BitIndex(bf.BitOf(0, Eof))); !errors.Is(err, ErrWrongBitType) {
		t.Fatalf("overload on EOF: err = %v", err)
	}
	require.Equal(t, before, bf.Len())

	index := bf.BitIndex(bf.BitOf(1, Intermission))
	require.NoError(t, bf.InsertOverloadFrame(index))
	assert.Equal(t, index+14, bf.Len())
	assert.Equal(t, 6, bf.CountBits(And(ByType(OverloadFlag), ByValue(Dominant))))
	assert.Equal(t, 8, bf.CountBits(And(ByType(OverloadDelimiter), ByValue(Recessive))))

	// A second overload frame may start inside the overload delimiter.
	require.NoError(t, bf.InsertOverloadFrame(bf.BitIndex(bf.BitOf(7, OverloadDelimiter))))
	assert.Equal(t, 12, bf.FieldLength(OverloadFlag))
	assert.Equal(t, 15, bf.FieldLength(OverloadDelimiter))
}

func TestBitFrame_LooseArbitration(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{}, 0x000, []byte{0x00, 0x00})
	index := bf.BitIndex(bf.BitOf(3, BaseIdentifier))

	require.NoError(t, bf.LooseArbitration(index))
	ack := bf.BitOf(0, Ack)
	for i, b := range bf.Bits() {
		switch {
		case i < index:
			if b.Value() != Dominant {
				t.Fatalf("bit %d before the arbitration point changed", i)
			}
		case b == ack:
			if b.Value() != Dominant {
				t.Fatalf("ACK must be dominant")
			}
		case b.Value() != Recessive:
			t.Fatalf("bit %d (%s) = %s, want recessive", i, b.Type(), b)
		}
	}

	if err := bf.LooseArbitration(bf.BitIndex(bf.BitOf(0, Dlc))); !errors.Is(err, ErrWrongBitType) {
		t.Fatalf("arbitration on DLC: err = %v", err)
	}
	if err := bf.LooseArbitration(bf.Len()); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("out of range: err = %v", err)
	}

	ext := newTestBitFrame(t, FrameFlags{Extended: true}, 0x1ABCDEFF, nil)
	assert.NoError(t, ext.LooseArbitration(ext.BitIndex(ext.BitOf(0, Srr))))
	assert.NoError(t, ext.LooseArbitration(ext.BitIndex(ext.BitOf(5, IdentifierExtension))))
}

func TestBitFrame_TurnReceivedFrame(t *testing.T) {
	for _, flags := range []FrameFlags{{}, {FD: true, BRS: true}, {Extended: true}} {
		bf := newTestBitFrame(t, flags, 0x0F0, []byte{0xFF, 0x00, 0x0F})
		bf.TurnReceivedFrame()
		dominant := bf.FindBits(ByValue(Dominant))
		require.Len(t, dominant, 1, flags.String())
		assert.Equal(t, Ack, dominant[0].Type())
	}

	// A second ACK bit models a late acknowledgement; only the first is driven.
	bf := newTestBitFrame(t, FrameFlags{FD: true}, 0x10, nil)
	_, err := bf.InsertBit(bf.BitIndex(bf.BitOf(0, Ack))+1, Ack, Recessive)
	require.NoError(t, err)
	bf.TurnReceivedFrame()
	assert.Equal(t, 2, bf.FieldLength(Ack))
	assert.Equal(t, Dominant, bf.BitOf(0, Ack).Value())
	assert.Equal(t, Recessive, bf.BitOf(1, Ack).Value())
}

func TestBitFrame_InsertRemove(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{}, 0x10, nil)
	n := bf.Len()
	ack := bf.BitOf(0, Ack)
	ackAt := bf.BitIndex(ack)

	b, err := bf.InsertBit(0, Idle, Recessive)
	require.NoError(t, err)
	assert.Equal(t, 0, bf.BitIndex(b))
	assert.Equal(t, ackAt+1, bf.BitIndex(ack), "pointers survive insertions")

	_, err = bf.InsertBit(bf.Len()+1, Idle, Recessive)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = bf.InsertBit(bf.Len(), Idle, Recessive)
	assert.NoError(t, err)
	assert.Equal(t, n+2, bf.Len())

	require.NoError(t, bf.RemoveBit(0))
	assert.Equal(t, -1, bf.BitIndex(b))
	assert.ErrorIs(t, bf.RemoveBit(bf.Len()), ErrIndexOutOfRange)

	require.NoError(t, bf.RemoveBitsFrom(ackAt))
	assert.Equal(t, ackAt, bf.Len())
	assert.Nil(t, bf.BitOf(0, Ack))
	assert.Equal(t, -1, bf.BitIndex(ack))

	last := bf.AppendBit(Ack, Dominant)
	assert.Equal(t, bf.Len()-1, bf.BitIndex(last))
}

func TestBitFrame_AppendBitFrameAndSuspend(t *testing.T) {
	a := newTestBitFrame(t, FrameFlags{}, 0x10, nil)
	b := newTestBitFrame(t, FrameFlags{FD: true, BRS: true}, 0x20, []byte{1, 2, 3})
	la, lb := a.Len(), b.Len()

	a.AppendSuspendTransmission()
	require.Equal(t, la+8, a.Len())
	assert.Equal(t, 8, a.FieldLength(SuspendTransmission))

	a.AppendBitFrame(b)
	require.Equal(t, la+8+lb, a.Len())
	assert.Equal(t, a.Bit(la+8).Type(), Sof)

	// The copy keeps the data rate of the appended frame and is independent.
	esi := a.FindBits(ByType(Esi))
	require.Len(t, esi, 1)
	assert.Equal(t, b.BitOf(0, Esi).LenCycles(), esi[0].LenCycles())
	esi[0].FlipValue()
	assert.Equal(t, Dominant, b.BitOf(0, Esi).Value())
	assert.Equal(t, a.LenCycles(), a.Trace().Len())

	a.AppendBitFrame(nil)
	assert.Equal(t, la+8+lb, a.Len())
}

func TestBitFrame_FlipBitAndCompensate(t *testing.T) {
	bf := newTestBitFrame(t, FrameFlags{}, 0x10, nil)
	index := bf.BitIndex(bf.BitOf(0, Ack))
	prev := bf.Bit(index - 1)
	require.Equal(t, CrcDelimiter, prev.Type())
	require.Equal(t, Recessive, prev.Value())

	require.NoError(t, bf.FlipBitAndCompensate(index, 3))
	assert.Equal(t, Dominant, bf.Bit(index).Value())
	assert.Equal(t, 61, prev.LenCycles())

	// Flipping back creates a falling edge on the next bit only.
	require.NoError(t, bf.FlipBitAndCompensate(index, 3))
	assert.Equal(t, Recessive, bf.Bit(index).Value())
	assert.Equal(t, 61, prev.LenCycles())

	assert.ErrorIs(t, bf.FlipBitAndCompensate(-1, 1), ErrIndexOutOfRange)
}
