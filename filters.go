package canbits

// BitFilter decides whether a bit matches a query.
type BitFilter func(*Bit) bool

// Typed and composable helpers for BitFilter.

// ByType matches bits of any of the given types.
func ByType(types ...BitType) BitFilter {
	if len(types) == 1 {
		t := types[0]
		return func(b *Bit) bool { return b.typ == t }
	}
	m := make(map[BitType]struct{}, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return func(b *Bit) bool {
		_, ok := m[b.typ]
		return ok
	}
}

// ByValue matches bits with the given logical value.
func ByValue(v BitValue) BitFilter {
	return func(b *Bit) bool { return b.value == v }
}

// StuffBits matches variable and fixed stuff bits.
func StuffBits() BitFilter {
	return func(b *Bit) bool { return b.stuff != NoStuff }
}

// VariableStuffBits matches stuff bits inserted after five equal bits.
func VariableStuffBits() BitFilter {
	return func(b *Bit) bool { return b.stuff == VariableStuff }
}

// FixedStuffBits matches CAN FD fixed stuff bits.
func FixedStuffBits() BitFilter {
	return func(b *Bit) bool { return b.stuff == FixedStuff }
}

// NonStuffBits matches regular bits.
func NonStuffBits() BitFilter {
	return func(b *Bit) bool { return b.stuff == NoStuff }
}

// ForcedBits matches bits with at least one forced cycle.
func ForcedBits() BitFilter {
	return func(b *Bit) bool { return !b.HasDefaultValues() }
}

// And composes two filters; the result matches when both match.
func And(a, b BitFilter) BitFilter {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return func(x *Bit) bool { return a(x) && b(x) }
	}
}

// Or composes two filters; the result matches when either matches.
func Or(a, b BitFilter) BitFilter {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		return func(x *Bit) bool { return a(x) || b(x) }
	}
}

// Not inverts a filter.
func Not(a BitFilter) BitFilter {
	if a == nil {
		return func(*Bit) bool { return false }
	}
	return func(x *Bit) bool { return !a(x) }
}
