package bank

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

// ParseSpecs parses a comma-separated band list such as
// "20-60:sub-bass,60-250:bass,250-1000". Labels are optional. Only the
// syntax is checked here; ranges are validated against a sample rate by New.
func ParseSpecs(s string) ([]BandSpec, error) {
	var specs []BandSpec

	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		rng, label, _ := strings.Cut(item, ":")

		lo, hi, ok := strings.Cut(rng, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not low-high", design.ErrInvalidBand, item)
		}

		low, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", design.ErrInvalidBand, item, err)
		}

		high, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", design.ErrInvalidBand, item, err)
		}

		specs = append(specs, BandSpec{LowHz: low, HighHz: high, Label: strings.TrimSpace(label)})
	}

	if len(specs) == 0 {
		return nil, ErrNoBands
	}

	return specs, nil
}
