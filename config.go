package canbits

import "fmt"

// TimingConfig is the pair of bit timings a test runs with. It is supplied by
// the DUT control side and never modified by this package.
type TimingConfig struct {
	Nominal BitTiming
	Data    BitTiming
}

// DefaultTimingConfig returns a 1:4 nominal to data bit rate ratio with the
// sample point at 75% of both bits.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		Nominal: BitTiming{Prop: 5, Ph1: 6, Ph2: 4, Brp: 4, Sjw: 2},
		Data:    BitTiming{Prop: 2, Ph1: 3, Ph2: 2, Brp: 2, Sjw: 2},
	}
}

// Validate checks both timings.
func (c TimingConfig) Validate() error {
	if err := c.Nominal.Validate(); err != nil {
		return fmt.Errorf("nominal: %w", err)
	}
	if err := c.Data.Validate(); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	return nil
}
