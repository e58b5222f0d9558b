package canbits

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Segment is a run of clock cycles with the same bus value.
type Segment struct {
	Value  BitValue `cbor:"1,keyasint"`
	Cycles int      `cbor:"2,keyasint"`
}

// Trace is a run-length encoded sequence of clock cycle values: the form in
// which a frame is driven onto, or monitored from, a simulated bus.
type Trace []Segment

// Mismatch locates the first cycle where two traces differ. Bit is the index
// of the expected bit covering that cycle, or -1 when it is not known. When
// one trace is shorter its missing cycles are reported as recessive (idle
// bus).
type Mismatch struct {
	Cycle int
	Bit   int
	Want  BitValue
	Got   BitValue
}

func (m Mismatch) String() string {
	return fmt.Sprintf("cycle %d (bit %d): want %s, got %s", m.Cycle, m.Bit, m.Want, m.Got)
}

// Trace flattens the frame into (value, cycles) segments. Each bit
// contributes the sum of its time quanta cycles; forced cycles override the
// bit value.
func (bf *BitFrame) Trace() Trace {
	var t Trace
	for _, b := range bf.bits {
		for _, tq := range b.quanta {
			for i := range tq.cycles {
				t = t.append(tq.cycles[i].Resolve(b.value), 1)
			}
		}
	}
	return t
}

func (t Trace) append(v BitValue, n int) Trace {
	if n <= 0 {
		return t
	}
	if len(t) > 0 && t[len(t)-1].Value == v {
		t[len(t)-1].Cycles += n
		return t
	}
	return append(t, Segment{Value: v, Cycles: n})
}

// TraceFromCycles run-length encodes per-cycle values.
func TraceFromCycles(cycles []BitValue) Trace {
	var t Trace
	for _, v := range cycles {
		t = t.append(v, 1)
	}
	return t
}

// Len returns the number of clock cycles in the trace.
func (t Trace) Len() int {
	n := 0
	for _, s := range t {
		n += s.Cycles
	}
	return n
}

// Cycles expands the trace into one value per clock cycle.
func (t Trace) Cycles() []BitValue {
	out := make([]BitValue, 0, t.Len())
	for _, s := range t {
		for i := 0; i < s.Cycles; i++ {
			out = append(out, s.Value)
		}
	}
	return out
}

// Compare reports the first cycle at which got differs from t. It returns
// false when a mismatch was found.
func (t Trace) Compare(got Trace) (Mismatch, bool) {
	want, have := t.Cycles(), got.Cycles()
	n := max(len(want), len(have))
	for i := 0; i < n; i++ {
		w, g := cycleAt(want, i), cycleAt(have, i)
		if w != g {
			return Mismatch{Cycle: i, Bit: -1, Want: w, Got: g}, false
		}
	}
	return Mismatch{}, true
}

func cycleAt(cycles []BitValue, i int) BitValue {
	if i < len(cycles) {
		return cycles[i]
	}
	return Recessive
}

// WiredAnd combines two traces the way the bus line does: a cycle is dominant
// when either trace drives it dominant. The shorter trace is extended with
// recessive cycles.
func WiredAnd(a, b Trace) Trace {
	ca, cb := a.Cycles(), b.Cycles()
	n := max(len(ca), len(cb))
	out := make([]BitValue, n)
	for i := range out {
		if cycleAt(ca, i) == Dominant || cycleAt(cb, i) == Dominant {
			out[i] = Dominant
		} else {
			out[i] = Recessive
		}
	}
	return TraceFromCycles(out)
}

// Compare checks a monitored trace against the frame, cycle for cycle, and
// reports the first differing cycle together with the bit it belongs to.
func (bf *BitFrame) Compare(got Trace) (Mismatch, bool) {
	m, ok := bf.Trace().Compare(got)
	if ok {
		return m, true
	}
	pos := 0
	for i, b := range bf.bits {
		pos += b.LenCycles()
		if m.Cycle < pos {
			m.Bit = i
			break
		}
	}
	return m, false
}

// EncodeTrace encodes a trace as deterministic CBOR for the co-simulation
// channel.
func EncodeTrace(t Trace) ([]byte, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(t)
}

// DecodeTrace decodes a CBOR trace and validates its segments.
func DecodeTrace(data []byte) (Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("canbits: decode trace: %w", err)
	}
	for i, s := range t {
		if s.Value > Recessive || s.Cycles < 0 {
			return nil, fmt.Errorf("canbits: decode trace: invalid segment %d %+v", i, s)
		}
	}
	return t, nil
}
