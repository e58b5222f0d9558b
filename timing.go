package canbits

import "fmt"

// BitTiming holds the segment lengths of one bit rate. Prop, Ph1 and Ph2 are
// in time quanta, Brp is the number of clock cycles per time quantum and Sjw
// the synchronization jump width.
type BitTiming struct {
	Prop int
	Ph1  int
	Ph2  int
	Brp  int
	Sjw  int
}

// Validate returns an error if the timing cannot describe a bit.
func (t BitTiming) Validate() error {
	if t.Prop < 0 || t.Ph1 < 0 || t.Ph2 < 0 || t.Sjw < 0 {
		return fmt.Errorf("%w: negative segment in %+v", ErrInvalidTiming, t)
	}
	if t.Brp < 1 {
		return fmt.Errorf("%w: brp %d < 1", ErrInvalidTiming, t.Brp)
	}
	if t.Sjw > t.Ph2 {
		return fmt.Errorf("%w: sjw %d > ph2 %d", ErrInvalidTiming, t.Sjw, t.Ph2)
	}
	if t.Sjw > t.Prop+t.Ph1+1 {
		return fmt.Errorf("%w: sjw %d > prop+ph1+1 %d", ErrInvalidTiming, t.Sjw, t.Prop+t.Ph1+1)
	}
	return nil
}

// PhaseLen returns the length of phase in time quanta.
func (t BitTiming) PhaseLen(phase BitPhase) int {
	switch phase {
	case Sync:
		return 1
	case Prop:
		return t.Prop
	case Phase1:
		return t.Ph1
	case Phase2:
		return t.Ph2
	}
	return 0
}

// BitLenTimeQuanta returns the nominal length of a bit in time quanta.
func (t BitTiming) BitLenTimeQuanta() int { return 1 + t.Prop + t.Ph1 + t.Ph2 }

// BitLenCycles returns the nominal length of a bit in clock cycles.
func (t BitTiming) BitLenCycles() int { return t.BitLenTimeQuanta() * t.Brp }

// SamplePointCycles returns the number of cycles from the start of the bit to
// its sample point.
func (t BitTiming) SamplePointCycles() int { return (1 + t.Prop + t.Ph1) * t.Brp }

func (t BitTiming) String() string {
	return fmt.Sprintf("prop=%d ph1=%d ph2=%d brp=%d sjw=%d", t.Prop, t.Ph1, t.Ph2, t.Brp, t.Sjw)
}
