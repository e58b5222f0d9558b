package canbits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBit(t *testing.T, typ BitType, flags FrameFlags) *Bit {
	t.Helper()
	cfg := DefaultTimingConfig()
	return NewBit(typ, Recessive, &flags, &cfg.Nominal, &cfg.Data)
}

func TestBit_NominalLayout(t *testing.T) {
	b := testBit(t, Ack, FrameFlags{})
	assert.Equal(t, 16, b.LenTimeQuanta())
	assert.Equal(t, 64, b.LenCycles())
	assert.Equal(t, 1, b.PhaseLenTimeQuanta(Sync))
	assert.Equal(t, 5, b.PhaseLenTimeQuanta(Prop))
	assert.Equal(t, 6, b.PhaseLenTimeQuanta(Phase1))
	assert.Equal(t, 4, b.PhaseLenTimeQuanta(Phase2))
	assert.Equal(t, 16, b.PhaseLenCycles(Phase2))
	assert.True(t, b.IsSingleBitField())
	assert.False(t, b.IsStuffBit())
}

func TestBit_ShortenLengthenPhase(t *testing.T) {
	b := testBit(t, DataField, FrameFlags{})

	if got := b.ShortenPhase(Phase1, 10); got != 6 {
		t.Fatalf("ShortenPhase(Phase1, 10) = %d, want 6", got)
	}
	if b.HasPhase(Phase1) {
		t.Fatalf("Phase1 should be gone")
	}
	if p := b.PrevBitPhase(Phase2); p != Prop {
		t.Fatalf("PrevBitPhase(Phase2) = %s, want Prop", p)
	}
	if p := b.NextBitPhase(Prop); p != Phase2 {
		t.Fatalf("NextBitPhase(Prop) = %s, want Phase2", p)
	}
	if got := b.ShortenPhase(Sync, 1); got != 0 {
		t.Fatalf("Sync must not shrink, removed %d", got)
	}

	b.LengthenPhase(Phase1, 6)
	if b.PhaseLenTimeQuanta(Phase1) != 6 || b.LenTimeQuanta() != 16 {
		t.Fatalf("lengthen did not restore: ph1=%d total=%d", b.PhaseLenTimeQuanta(Phase1), b.LenTimeQuanta())
	}
	// Phase order must survive the round trip.
	prev := Sync
	for i := 0; i < b.LenTimeQuanta(); i++ {
		ph := b.TimeQuanta(i).Phase()
		if ph < prev {
			t.Fatalf("time quantum %d in %s after %s", i, ph, prev)
		}
		prev = ph
	}
}

func TestBit_PhaseWalkBoundaries(t *testing.T) {
	b := testBit(t, Sof, FrameFlags{})
	assert.Equal(t, Sync, b.PrevBitPhase(Sync))
	assert.Equal(t, Phase2, b.NextBitPhase(Phase2))
	assert.Equal(t, Sync, b.PrevBitPhase(Prop))

	b.ShortenPhase(Phase2, 4)
	assert.Equal(t, Phase1, b.NextBitPhase(Phase1))
}

func TestBit_ForceRanges(t *testing.T) {
	b := testBit(t, Eof, FrameFlags{})

	assert.Equal(t, 8, b.ForcePhaseTimeQuantaRange(Phase2, 2, 10, Dominant))
	assert.Equal(t, 4, b.ForceCycleRange(60, 100, Dominant))
	assert.True(t, b.ForceCycle(0, Dominant))
	assert.False(t, b.ForceCycle(64, Dominant))
	assert.False(t, b.ForcePhaseTimeQuanta(Prop, 5, Dominant))
	assert.False(t, b.HasDefaultValues())

	cycles := b.Cycles()
	require.Len(t, cycles, 64)
	assert.Equal(t, Dominant, cycles[0])
	assert.Equal(t, Recessive, cycles[1])
	assert.Equal(t, Recessive, cycles[55])
	for i := 56; i < 64; i++ {
		assert.Equal(t, Dominant, cycles[i], "cycle %d", i)
	}

	b.ReleaseAll()
	assert.True(t, b.HasDefaultValues())
	assert.Equal(t, 64, b.ForceTimeQuantaRange(-3, 100, Dominant))
	b.SetValue(Recessive)
	for _, v := range b.Cycles() {
		assert.Equal(t, Dominant, v)
	}
}

func TestBit_ShortenCycles(t *testing.T) {
	b := testBit(t, Eof, FrameFlags{})
	assert.Equal(t, 5, b.ShortenCycles(5))
	assert.Equal(t, 59, b.LenCycles())
	assert.Equal(t, 11, b.PhaseLenCycles(Phase2))

	// Everything but Sync can go.
	assert.Equal(t, 55, b.ShortenCycles(1000))
	assert.Equal(t, 4, b.LenCycles())
	assert.Equal(t, 4, b.PhaseLenCycles(Sync))
}

func TestBit_RateRules(t *testing.T) {
	cfg := DefaultTimingConfig()
	shifted := FrameFlags{FD: true, BRS: true}
	cases := []struct {
		name   string
		typ    BitType
		flags  FrameFlags
		cycles int
		ph1    BitRate
		ph2    BitRate
	}{
		{"classic data", DataField, FrameFlags{}, 64, Nominal, Nominal},
		{"fd without brs", DataField, FrameFlags{FD: true}, 64, Nominal, Nominal},
		{"brs", Brs, shifted, 12*4 + 2*2, Nominal, Data},
		{"esi", Esi, shifted, 16, Data, Data},
		{"dlc", Dlc, shifted, 16, Data, Data},
		{"stuff count", StuffCount, shifted, 16, Data, Data},
		{"crc", Crc, shifted, 16, Data, Data},
		{"crc delimiter", CrcDelimiter, shifted, 6*2 + 4*4, Data, Nominal},
		{"ack", Ack, shifted, 64, Nominal, Nominal},
		{"edl", Edl, shifted, 64, Nominal, Nominal},
	}
	for _, tc := range cases {
		flags := tc.flags
		b := NewBit(tc.typ, Dominant, &flags, &cfg.Nominal, &cfg.Data)
		if got := b.LenCycles(); got != tc.cycles {
			t.Fatalf("%s: LenCycles() = %d, want %d", tc.name, got, tc.cycles)
		}
		if got := b.PhaseBitRate(Phase1); got != tc.ph1 {
			t.Fatalf("%s: Phase1 rate = %s, want %s", tc.name, got, tc.ph1)
		}
		if got := b.PhaseBitRate(Phase2); got != tc.ph2 {
			t.Fatalf("%s: Phase2 rate = %s, want %s", tc.name, got, tc.ph2)
		}
	}

	stuffAfterBrs := newBit(Brs, VariableStuff, Dominant, &shifted, &cfg.Nominal, &cfg.Data)
	assert.Equal(t, Data, stuffAfterBrs.PhaseBitRate(Sync))
	assert.Equal(t, 16, stuffAfterBrs.LenCycles())
}

func TestBit_LengthenUsesPhaseTiming(t *testing.T) {
	b := testBit(t, Brs, FrameFlags{FD: true, BRS: true})
	b.LengthenPhase(Phase2, 1)
	assert.Equal(t, 3, b.PhaseLenTimeQuanta(Phase2))
	assert.Equal(t, 6, b.PhaseLenCycles(Phase2))
	b.LengthenPhase(Phase1, 1)
	assert.Equal(t, 28, b.PhaseLenCycles(Phase1))
}

func TestBit_CorrectPh2LenToNominal(t *testing.T) {
	b := testBit(t, DataField, FrameFlags{FD: true, BRS: true})
	require.Equal(t, 2, b.PhaseLenTimeQuanta(Phase2))

	b.CorrectPh2LenToNominal()
	assert.Equal(t, 4, b.PhaseLenTimeQuanta(Phase2))
	assert.Equal(t, 16, b.PhaseLenCycles(Phase2))
	assert.Equal(t, 6*2+16, b.LenCycles())

	nominal := testBit(t, DataField, FrameFlags{FD: true})
	nominal.ShortenPhase(Phase2, 1)
	nominal.CorrectPh2LenToNominal()
	assert.Equal(t, 3, nominal.PhaseLenTimeQuanta(Phase2), "nominal Phase2 is left alone")
}

func TestTimeQuanta_Cycles(t *testing.T) {
	tq := NewTimeQuanta(Prop, 4)
	assert.Equal(t, 2, tq.ForceCycleRange(2, 9, Dominant))
	assert.False(t, tq.ForceCycleValue(4, Dominant))
	assert.True(t, tq.Cycle(0).HasDefaultValue())
	assert.False(t, tq.Cycle(3).HasDefaultValue())
	assert.Nil(t, tq.Cycle(4))

	tq.Lengthen(2)
	assert.Equal(t, 6, tq.Len())
	assert.Equal(t, 6, tq.Shorten(10))
	assert.Equal(t, 0, tq.Len())
	assert.Equal(t, 0, tq.Shorten(1))
}
