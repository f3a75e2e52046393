package eq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// ParseGains parses a comma-separated gain list. Each value is linear
// ("1.5") or in dB with a "dB" suffix ("-6dB", "+3 dB").
func ParseGains(s string) ([]float64, error) {
	var gains []float64

	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		g, err := ParseGain(item)
		if err != nil {
			return nil, err
		}

		gains = append(gains, g)
	}

	if len(gains) == 0 {
		return nil, fmt.Errorf("%w: empty gain list", ErrConfiguration)
	}

	return gains, nil
}

// ParseGain parses one linear or dB gain value.
func ParseGain(s string) (float64, error) {
	s = strings.TrimSpace(s)

	num, isDB := strings.CutSuffix(strings.ToLower(s), "db")

	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: gain %q: %w", ErrConfiguration, s, err)
	}

	if isDB {
		return core.DBToLinear(v), nil
	}

	return v, nil
}
