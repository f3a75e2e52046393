package eq

import "github.com/cwbudde/algo-eq/dsp/filter/bank"

// DefaultBands returns the five-band layout used when no bands are given.
func DefaultBands() []bank.BandSpec {
	return []bank.BandSpec{
		{LowHz: 20, HighHz: 60, Label: "sub-bass"},
		{LowHz: 60, HighHz: 250, Label: "bass"},
		{LowHz: 250, HighHz: 1000, Label: "mids"},
		{LowHz: 1000, HighHz: 4000, Label: "upper mids"},
		{LowHz: 4000, HighHz: 16000, Label: "air"},
	}
}
