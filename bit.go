package canbits

// phases in the order they appear within a bit.
var phases = [...]BitPhase{Sync, Prop, Phase1, Phase2}

// Bit is one protocol bit. Its time quanta are grouped into contiguous phases
// in the order Sync, Prop, Phase1, Phase2. Sync always holds exactly one time
// quantum; the other phases may be shortened away.
//
// A Bit refers to, but does not own, the frame flags and the two bit timings
// it was built with.
type Bit struct {
	typ    BitType
	stuff  StuffKind
	value  BitValue
	quanta []*TimeQuanta

	flags   *FrameFlags
	nominal *BitTiming
	data    *BitTiming
}

// NewBit builds a regular (non stuff) bit with time quanta laid out from the
// timing that applies to each of its phases. Both timings must be non-nil.
func NewBit(typ BitType, value BitValue, flags *FrameFlags, nominal, data *BitTiming) *Bit {
	return newBit(typ, NoStuff, value, flags, nominal, data)
}

func newBit(typ BitType, stuff StuffKind, value BitValue, flags *FrameFlags, nominal, data *BitTiming) *Bit {
	b := &Bit{
		typ:     typ,
		stuff:   stuff,
		value:   value,
		flags:   flags,
		nominal: nominal,
		data:    data,
	}
	for _, ph := range phases {
		t := b.PhaseBitTiming(ph)
		for i := 0; i < t.PhaseLen(ph); i++ {
			b.quanta = append(b.quanta, NewTimeQuanta(ph, t.Brp))
		}
	}
	return b
}

// Type returns the field the bit belongs to.
func (b *Bit) Type() BitType { return b.typ }

// StuffKind returns the stuff bit classification.
func (b *Bit) StuffKind() StuffKind { return b.stuff }

// IsStuffBit reports whether the bit is a variable or fixed stuff bit.
func (b *Bit) IsStuffBit() bool { return b.stuff != NoStuff }

// IsSingleBitField reports whether the bit's field is one bit long.
func (b *Bit) IsSingleBitField() bool { return b.typ.IsSingleBitField() }

// Value returns the logical bit value.
func (b *Bit) Value() BitValue { return b.value }

// SetValue sets the logical bit value. Forced cycles keep their values.
func (b *Bit) SetValue(v BitValue) { b.value = v }

// FlipValue inverts the logical bit value.
func (b *Bit) FlipValue() { b.value = b.value.Opposite() }

// PhaseBitRate returns the bit rate phase is sent with. Only an FD frame with
// the bit rate shift flag uses the data rate: BRS switches at its sample
// point, the CRC delimiter switches back at its sample point, and the fields
// between are sent at the data rate.
func (b *Bit) PhaseBitRate(phase BitPhase) BitRate {
	if !b.flags.shiftsBitRate() {
		return Nominal
	}
	rule := b.typ.info().rate
	if b.typ == Brs && b.stuff != NoStuff {
		// A stuff bit after BRS lies past the switching point.
		rule = rateData
	}
	switch rule {
	case rateData:
		return Data
	case rateShiftUp:
		if phase == Phase2 {
			return Data
		}
	case rateShiftDown:
		if phase != Phase2 {
			return Data
		}
	}
	return Nominal
}

// PhaseBitTiming returns the timing that sizes phase.
func (b *Bit) PhaseBitTiming(phase BitPhase) *BitTiming {
	if b.PhaseBitRate(phase) == Data {
		return b.data
	}
	return b.nominal
}

// phaseBounds returns the [start, end) range of phase within b.quanta. For an
// absent phase start == end is the position where it would be.
func (b *Bit) phaseBounds(phase BitPhase) (start, end int) {
	start = len(b.quanta)
	for i, tq := range b.quanta {
		if tq.phase >= phase {
			start = i
			break
		}
	}
	end = start
	for end < len(b.quanta) && b.quanta[end].phase == phase {
		end++
	}
	return start, end
}

// HasPhase reports whether the bit has at least one time quantum in phase.
func (b *Bit) HasPhase(phase BitPhase) bool {
	return b.PhaseLenTimeQuanta(phase) > 0
}

// PhaseLenTimeQuanta returns the length of phase in time quanta.
func (b *Bit) PhaseLenTimeQuanta(phase BitPhase) int {
	start, end := b.phaseBounds(phase)
	return end - start
}

// PhaseLenCycles returns the length of phase in clock cycles.
func (b *Bit) PhaseLenCycles(phase BitPhase) int {
	start, end := b.phaseBounds(phase)
	n := 0
	for _, tq := range b.quanta[start:end] {
		n += tq.Len()
	}
	return n
}

// LenTimeQuanta returns the length of the bit in time quanta.
func (b *Bit) LenTimeQuanta() int { return len(b.quanta) }

// LenCycles returns the length of the bit in clock cycles.
func (b *Bit) LenCycles() int {
	n := 0
	for _, tq := range b.quanta {
		n += tq.Len()
	}
	return n
}

// ShortenPhase removes up to n time quanta from the end of phase and returns
// how many were removed. Sync cannot be shortened.
func (b *Bit) ShortenPhase(phase BitPhase, n int) int {
	if phase == Sync || n <= 0 {
		return 0
	}
	start, end := b.phaseBounds(phase)
	if n > end-start {
		n = end - start
	}
	b.quanta = append(b.quanta[:end-n], b.quanta[end:]...)
	return n
}

// LengthenPhase appends n time quanta to the end of phase, each sized by the
// timing of that phase. An absent phase is recreated at its position. Sync is
// left as is.
func (b *Bit) LengthenPhase(phase BitPhase, n int) {
	if phase == Sync || n <= 0 {
		return
	}
	_, end := b.phaseBounds(phase)
	brp := b.PhaseBitTiming(phase).Brp
	added := make([]*TimeQuanta, n)
	for i := range added {
		added[i] = NewTimeQuanta(phase, brp)
	}
	b.quanta = append(b.quanta[:end], append(added, b.quanta[end:]...)...)
}

// ShortenCycles removes up to n clock cycles from the end of the bit, emptying
// time quanta from Phase2 backwards, and returns how many were removed. The
// Sync quantum is never shortened.
func (b *Bit) ShortenCycles(n int) int {
	removed := 0
	for i := len(b.quanta) - 1; i >= 0 && removed < n; i-- {
		if b.quanta[i].phase == Sync {
			break
		}
		removed += b.quanta[i].Shorten(n - removed)
	}
	return removed
}

// TimeQuanta returns time quantum index of the bit or nil.
func (b *Bit) TimeQuanta(index int) *TimeQuanta {
	if index < 0 || index >= len(b.quanta) {
		return nil
	}
	return b.quanta[index]
}

// PhaseTimeQuanta returns time quantum index of phase or nil.
func (b *Bit) PhaseTimeQuanta(phase BitPhase, index int) *TimeQuanta {
	start, end := b.phaseBounds(phase)
	if index < 0 || start+index >= end {
		return nil
	}
	return b.quanta[start+index]
}

// PrevBitPhase returns the closest present phase before phase. Sync has no
// predecessor and is returned for itself.
func (b *Bit) PrevBitPhase(phase BitPhase) BitPhase {
	for p := int(phase) - 1; p > int(Sync); p-- {
		if b.HasPhase(BitPhase(p)) {
			return BitPhase(p)
		}
	}
	return Sync
}

// NextBitPhase returns the closest present phase after phase, or phase itself
// when none follows.
func (b *Bit) NextBitPhase(phase BitPhase) BitPhase {
	for p := phase + 1; p <= Phase2; p++ {
		if b.HasPhase(p) {
			return p
		}
	}
	return phase
}

// ForceTimeQuanta pins every cycle of time quantum index to v.
func (b *Bit) ForceTimeQuanta(index int, v BitValue) bool {
	tq := b.TimeQuanta(index)
	if tq == nil {
		return false
	}
	tq.ForceValue(v)
	return true
}

// ForceTimeQuantaRange pins time quanta start..end (inclusive, clamped) and
// returns the number of cycles affected.
func (b *Bit) ForceTimeQuantaRange(start, end int, v BitValue) int {
	return forceQuanta(b.quanta, start, end, v)
}

// ForcePhaseTimeQuanta pins time quantum index of phase to v.
func (b *Bit) ForcePhaseTimeQuanta(phase BitPhase, index int, v BitValue) bool {
	tq := b.PhaseTimeQuanta(phase, index)
	if tq == nil {
		return false
	}
	tq.ForceValue(v)
	return true
}

// ForcePhaseTimeQuantaRange pins time quanta start..end of phase (inclusive,
// clamped to the phase) and returns the number of cycles affected.
func (b *Bit) ForcePhaseTimeQuantaRange(phase BitPhase, start, end int, v BitValue) int {
	s, e := b.phaseBounds(phase)
	return forceQuanta(b.quanta[s:e], start, end, v)
}

func forceQuanta(quanta []*TimeQuanta, start, end int, v BitValue) int {
	if start < 0 {
		start = 0
	}
	if end >= len(quanta) {
		end = len(quanta) - 1
	}
	n := 0
	for i := start; i <= end; i++ {
		quanta[i].ForceValue(v)
		n += quanta[i].Len()
	}
	return n
}

// ForceCycle pins clock cycle index of the bit, counted from the start of
// Sync.
func (b *Bit) ForceCycle(index int, v BitValue) bool {
	return b.ForceCycleRange(index, index, v) == 1
}

// ForceCycleRange pins clock cycles start..end (inclusive, clamped) and
// returns the number of cycles affected.
func (b *Bit) ForceCycleRange(start, end int, v BitValue) int {
	if start < 0 {
		start = 0
	}
	n, pos := 0, 0
	for _, tq := range b.quanta {
		for i := range tq.cycles {
			if pos >= start && pos <= end {
				tq.cycles[i].ForceValue(v)
				n++
			}
			pos++
		}
	}
	return n
}

// ReleaseAll makes every cycle follow the bit value again.
func (b *Bit) ReleaseAll() {
	for _, tq := range b.quanta {
		tq.Release()
	}
}

// HasDefaultValues reports whether no cycle of the bit is forced.
func (b *Bit) HasDefaultValues() bool {
	for _, tq := range b.quanta {
		if !tq.HasDefaultValues() {
			return false
		}
	}
	return true
}

// Cycles returns the value driven in every clock cycle of the bit.
func (b *Bit) Cycles() []BitValue {
	out := make([]BitValue, 0, b.LenCycles())
	for _, tq := range b.quanta {
		for i := range tq.cycles {
			out = append(out, tq.cycles[i].Resolve(b.value))
		}
	}
	return out
}

// CorrectPh2LenToNominal rebuilds Phase2 from the nominal timing when it is
// currently sized by the data timing. An error frame that follows a data rate
// bit switches back to the nominal rate at that bit's sample point.
func (b *Bit) CorrectPh2LenToNominal() {
	if b.PhaseBitRate(Phase2) != Data {
		return
	}
	start, end := b.phaseBounds(Phase2)
	rebuilt := make([]*TimeQuanta, 0, b.nominal.Ph2)
	for i := 0; i < b.nominal.Ph2; i++ {
		rebuilt = append(rebuilt, NewTimeQuanta(Phase2, b.nominal.Brp))
	}
	b.quanta = append(b.quanta[:start], append(rebuilt, b.quanta[end:]...)...)
}

// clone deep copies the bit and attaches it to flags.
func (b *Bit) clone(flags *FrameFlags) *Bit {
	c := *b
	c.flags = flags
	c.quanta = make([]*TimeQuanta, len(b.quanta))
	for i, tq := range b.quanta {
		c.quanta[i] = tq.clone()
	}
	return &c
}

// String returns the bit value, "0" or "1".
func (b *Bit) String() string { return b.value.String() }
