// Package response measures the frequency response of an equalizer filter
// bank from its impulse responses, and the per-band energy distribution of a
// captured signal.
//
// Measurements go through an FFT of a fixed power-of-two size rather than
// the analytic transfer function, so they check what the filters actually do
// sample by sample:
//
//   - centre gain of each band
//   - measured -3 dB edges (linear interpolation between bins)
//   - isolation: the strongest leakage of a band at another band's centre
//
// # Usage
//
//	a, err := response.NewAnalyzer(48000, response.DefaultFFTSize)
//	reports, err := a.AnalyzeBank(b)
//	for _, r := range reports {
//	    fmt.Printf("%s: %.1f-%.1f Hz\n", r.Name, r.EdgeLowHz, r.EdgeHighHz)
//	}
package response
