package canbits

// TimeQuanta is one time quantum of a bit: brp clock cycles tagged with the
// bit phase they belong to.
type TimeQuanta struct {
	phase  BitPhase
	cycles []CycleBitValue
}

// NewTimeQuanta creates a time quantum of brp default cycles.
func NewTimeQuanta(phase BitPhase, brp int) *TimeQuanta {
	if brp < 0 {
		brp = 0
	}
	return &TimeQuanta{phase: phase, cycles: make([]CycleBitValue, brp)}
}

// Phase returns the bit phase of the time quantum.
func (tq *TimeQuanta) Phase() BitPhase { return tq.phase }

// Len returns the number of clock cycles.
func (tq *TimeQuanta) Len() int { return len(tq.cycles) }

// Cycle returns the cycle at index or nil.
func (tq *TimeQuanta) Cycle(index int) *CycleBitValue {
	if index < 0 || index >= len(tq.cycles) {
		return nil
	}
	return &tq.cycles[index]
}

// Lengthen appends n default cycles.
func (tq *TimeQuanta) Lengthen(n int) {
	for i := 0; i < n; i++ {
		tq.cycles = append(tq.cycles, CycleBitValue{})
	}
}

// Shorten removes up to n cycles from the end and returns how many were
// removed.
func (tq *TimeQuanta) Shorten(n int) int {
	if n <= 0 {
		return 0
	}
	if n > len(tq.cycles) {
		n = len(tq.cycles)
	}
	tq.cycles = tq.cycles[:len(tq.cycles)-n]
	return n
}

// ForceValue pins every cycle to v.
func (tq *TimeQuanta) ForceValue(v BitValue) {
	for i := range tq.cycles {
		tq.cycles[i].ForceValue(v)
	}
}

// ForceCycleValue pins a single cycle. It returns false if index is out of
// range.
func (tq *TimeQuanta) ForceCycleValue(index int, v BitValue) bool {
	c := tq.Cycle(index)
	if c == nil {
		return false
	}
	c.ForceValue(v)
	return true
}

// ForceCycleRange pins cycles start..end (inclusive), clamped to the length of
// the time quantum, and returns the number of cycles pinned.
func (tq *TimeQuanta) ForceCycleRange(start, end int, v BitValue) int {
	if start < 0 {
		start = 0
	}
	if end >= len(tq.cycles) {
		end = len(tq.cycles) - 1
	}
	n := 0
	for i := start; i <= end; i++ {
		tq.cycles[i].ForceValue(v)
		n++
	}
	return n
}

// Release makes every cycle follow the bit value again.
func (tq *TimeQuanta) Release() {
	for i := range tq.cycles {
		tq.cycles[i].ReleaseValue()
	}
}

// HasDefaultValues reports whether no cycle is forced.
func (tq *TimeQuanta) HasDefaultValues() bool {
	for i := range tq.cycles {
		if tq.cycles[i].forced {
			return false
		}
	}
	return true
}

func (tq *TimeQuanta) clone() *TimeQuanta {
	c := &TimeQuanta{phase: tq.phase, cycles: make([]CycleBitValue, len(tq.cycles))}
	copy(c.cycles, tq.cycles)
	return c
}
