package canbits

// BitValue is the logical level of a bit or clock cycle on the bus.
type BitValue uint8

const (
	Dominant  BitValue = 0
	Recessive BitValue = 1
)

// Opposite returns the other bus level.
func (v BitValue) Opposite() BitValue {
	if v == Dominant {
		return Recessive
	}
	return Dominant
}

func (v BitValue) String() string {
	if v == Dominant {
		return "0"
	}
	return "1"
}

// BitPhase identifies the segment of a bit a time quantum belongs to.
type BitPhase uint8

const (
	Sync BitPhase = iota
	Prop
	Phase1
	Phase2
)

var phaseNames = [...]string{"Sync", "Prop", "Phase1", "Phase2"}

func (p BitPhase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// BitRate selects between the nominal (arbitration) and data bit timing.
type BitRate uint8

const (
	Nominal BitRate = iota
	Data
)

func (r BitRate) String() string {
	if r == Data {
		return "Data"
	}
	return "Nominal"
}

// StuffKind classifies a bit as a regular bit or one of the two stuff bit
// flavours.
type StuffKind uint8

const (
	NoStuff       StuffKind = iota
	VariableStuff           // inserted after five equal bits
	FixedStuff              // CAN FD stuff count and CRC fields
)

func (k StuffKind) String() string {
	switch k {
	case VariableStuff:
		return "variable"
	case FixedStuff:
		return "fixed"
	default:
		return "none"
	}
}
