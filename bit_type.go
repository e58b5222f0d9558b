package canbits

// BitType tags every bit with the frame field (or pseudo field) it belongs to.
type BitType uint8

const (
	Sof BitType = iota
	BaseIdentifier
	IdentifierExtension
	Rtr
	Srr
	Ide
	Edl
	R0
	R1
	Brs
	Esi
	Dlc
	DataField
	StuffCount
	StuffParity
	Crc
	CrcDelimiter
	Ack
	AckDelimiter
	Eof
	Intermission
	Idle
	SuspendTransmission
	ActiveErrorFlag
	PassiveErrorFlag
	ErrorDelimiter
	OverloadFlag
	OverloadDelimiter
)

// rateRule says which bit timing each phase of a bit uses once the bit rate
// is shifted.
type rateRule uint8

const (
	rateNominal   rateRule = iota
	rateData               // whole bit at data rate
	rateShiftUp            // Sync..Phase1 nominal, Phase2 data
	rateShiftDown          // Sync..Phase1 data, Phase2 nominal
)

type bitTypeInfo struct {
	name      string
	short     string
	rate      rateRule
	singleBit bool
}

var bitTypes = [...]bitTypeInfo{
	Sof:                 {"SOF", "SOF", rateNominal, true},
	BaseIdentifier:      {"Base identifier", "ID", rateNominal, false},
	IdentifierExtension: {"Identifier extension", "IDE-X", rateNominal, false},
	Rtr:                 {"RTR", "RTR", rateNominal, true},
	Srr:                 {"SRR", "SRR", rateNominal, true},
	Ide:                 {"IDE", "IDE", rateNominal, true},
	Edl:                 {"EDL", "EDL", rateNominal, true},
	R0:                  {"R0", "R0", rateNominal, true},
	R1:                  {"R1", "R1", rateNominal, true},
	Brs:                 {"BRS", "BRS", rateShiftUp, true},
	Esi:                 {"ESI", "ESI", rateData, true},
	Dlc:                 {"DLC", "DLC", rateData, false},
	DataField:           {"Data field", "DATA", rateData, false},
	StuffCount:          {"Stuff count", "STC", rateData, false},
	StuffParity:         {"Stuff parity", "STP", rateData, true},
	Crc:                 {"CRC", "CRC", rateData, false},
	CrcDelimiter:        {"CRC delimiter", "CRD", rateShiftDown, true},
	Ack:                 {"ACK", "ACK", rateNominal, true},
	AckDelimiter:        {"ACK delimiter", "ACD", rateNominal, true},
	Eof:                 {"End of frame", "EOF", rateNominal, false},
	Intermission:        {"Intermission", "INT", rateNominal, false},
	Idle:                {"Idle", "IDLE", rateNominal, false},
	SuspendTransmission: {"Suspend transmission", "SUSP", rateNominal, false},
	ActiveErrorFlag:     {"Active error flag", "AEF", rateNominal, false},
	PassiveErrorFlag:    {"Passive error flag", "PEF", rateNominal, false},
	ErrorDelimiter:      {"Error delimiter", "ERD", rateNominal, false},
	OverloadFlag:        {"Overload flag", "OVF", rateNominal, false},
	OverloadDelimiter:   {"Overload delimiter", "OVD", rateNominal, false},
}

func (t BitType) info() bitTypeInfo {
	if int(t) < len(bitTypes) {
		return bitTypes[t]
	}
	return bitTypeInfo{name: "Unknown", short: "?"}
}

// String returns the human readable field name.
func (t BitType) String() string { return t.info().name }

// ShortName returns the abbreviated field name used in printed layouts.
func (t BitType) ShortName() string { return t.info().short }

// IsSingleBitField reports whether the field consists of exactly one bit.
func (t BitType) IsSingleBitField() bool { return t.info().singleBit }

// isArbitration reports whether a node may still lose arbitration on a bit of
// this type.
func (t BitType) isArbitration() bool {
	switch t {
	case BaseIdentifier, IdentifierExtension, Rtr, Srr, Ide:
		return true
	}
	return false
}

// acceptsOverload reports whether an overload frame may start on this bit.
func (t BitType) acceptsOverload() bool {
	switch t {
	case Intermission, ErrorDelimiter, OverloadDelimiter:
		return true
	}
	return false
}
