package canbits

// CycleBitValue is one clock cycle of a time quantum. By default it follows
// the value of the bit that owns it; a forced cycle keeps its own value
// regardless of the bit value, which is how glitches are injected.
type CycleBitValue struct {
	forced bool
	value  BitValue
}

// HasDefaultValue reports whether the cycle follows its bit's value.
func (c *CycleBitValue) HasDefaultValue() bool { return !c.forced }

// ForceValue pins the cycle to v.
func (c *CycleBitValue) ForceValue(v BitValue) {
	c.forced = true
	c.value = v
}

// ReleaseValue makes the cycle follow its bit's value again.
func (c *CycleBitValue) ReleaseValue() {
	c.forced = false
	c.value = Dominant
}

// Resolve returns the value driven in this cycle for a bit of value bit.
func (c *CycleBitValue) Resolve(bit BitValue) BitValue {
	if c.forced {
		return c.value
	}
	return bit
}
