package canbits

import "math/rand/v2"

// RandomFlags returns a random valid flag combination.
func RandomFlags(r *rand.Rand) FrameFlags {
	var f FrameFlags
	f.FD = r.IntN(2) == 1
	f.Extended = r.IntN(2) == 1
	if f.FD {
		f.BRS = r.IntN(2) == 1
		f.ESI = r.IntN(2) == 1
	} else {
		f.RTR = r.IntN(2) == 1
	}
	return f
}

// RandomFrame returns a random valid frame. When flags is nil the flags are
// randomized too, otherwise they are used as given and must be valid.
func RandomFrame(r *rand.Rand, flags *FrameFlags) (*Frame, error) {
	var fl FrameFlags
	if flags != nil {
		fl = *flags
	} else {
		fl = RandomFlags(r)
	}
	if err := fl.Validate(); err != nil {
		return nil, err
	}
	f := &Frame{flags: fl}
	if fl.Extended {
		f.id = r.Uint32N(maxExtID + 1)
	} else {
		f.id = r.Uint32N(maxStdID + 1)
	}
	if err := f.SetDlc(uint8(r.IntN(16))); err != nil {
		return nil, err
	}
	for i := 0; i < f.dataLen; i++ {
		f.data[i] = byte(r.IntN(256))
	}
	return f, nil
}
