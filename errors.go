package canbits

import "errors"

// Configuration errors. Constructors and setters return them wrapped and leave
// the previous valid state untouched.
var (
	ErrInvalidID     = errors.New("canbits: invalid identifier")
	ErrInvalidDLC    = errors.New("canbits: invalid data length code")
	ErrInvalidLen    = errors.New("canbits: invalid data length")
	ErrInvalidFlags  = errors.New("canbits: invalid flag combination")
	ErrInvalidTiming = errors.New("canbits: invalid bit timing")
)

// Structural errors reported by BitFrame mutations. The frame is not modified
// when one of these is returned.
var (
	ErrIndexOutOfRange = errors.New("canbits: bit index out of range")
	ErrWrongBitType    = errors.New("canbits: wrong bit type for operation")
)

// ErrClosed indicates the transport has been closed.
var ErrClosed = errors.New("canbits: closed")
