// Command eqinfo prints the design and measured response of an equalizer
// band layout.
//
// Usage:
//
//	eqinfo [flags]
//
// Without flags it analyzes the default five-band layout at 48 kHz.
//
// Examples:
//
//	eqinfo
//	eqinfo -rate 44100 -order 6
//	eqinfo -bands "20-200:low,200-2000:mid,2000-20000:high" -rate 48000
//	eqinfo -presets
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/dsp/filter/bank"
	"github.com/cwbudde/algo-eq/dsp/filter/design"
	"github.com/cwbudde/algo-eq/measure/response"
)

func main() {
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	order := flag.Int("order", bank.DefaultOrder, fmt.Sprintf("Butterworth prototype order (1..%d)", design.MaxOrder))
	bands := flag.String("bands", "", "band list low-high[:label],... (default: the five-band layout)")
	fftSize := flag.Int("fft", response.DefaultFFTSize, "FFT size for the measured response")
	presets := flag.Bool("presets", false, "list gain presets and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eqinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints design and measured response of equalizer bands.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  eqinfo -rate 44100 -order 6\n")
		fmt.Fprintf(os.Stderr, "  eqinfo -bands \"20-200:low,200-2000:mid,2000-20000:high\"\n")
		fmt.Fprintf(os.Stderr, "  eqinfo -presets\n")
	}
	flag.Parse()

	if *presets {
		printPresets()
		return
	}

	specs := eq.DefaultBands()
	if *bands != "" {
		var err error
		if specs, err = bank.ParseSpecs(*bands); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
	}

	b, err := bank.New(specs, *rate, bank.WithOrder(*order))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	a, err := response.NewAnalyzer(*rate, *fftSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	reports, err := a.AnalyzeBank(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d bands, order %d (%d sections each), %.0f Hz, FFT %d\n\n",
		b.NumBands(), b.Order(), b.Order(), b.SampleRate(), a.FFTSize())
	printReports(reports)
}

func printReports(reports []response.BandReport) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Band\tDesign [Hz]\tCentre [Hz]\tCentre [dB]\t-3 dB low\t-3 dB high\tIsolation [dB]\tWorst\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "----\t-----------\t-----------\t-----------\t---------\t----------\t--------------\t-----\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, r := range reports {
		if _, err := fmt.Fprintf(tw, "%s\t%g-%g\t%.2f\t%.3f\t%s\t%s\t%.1f\t%s\n",
			r.Name,
			r.LowHz, r.HighHz,
			r.CenterHz,
			r.CenterDB,
			edge(r.EdgeLowHz),
			edge(r.EdgeHighHz),
			r.IsolationDB,
			r.WorstBand,
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func edge(hz float64) string {
	if hz == 0 {
		return "-"
	}

	return fmt.Sprintf("%.2f", hz)
}

func printPresets() {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Preset\tGains\n------\t-----\n")

	for _, name := range eq.PresetNames() {
		p, err := eq.LookupPreset(name)
		if err != nil {
			continue
		}

		vals := make([]string, len(p.Gains))
		for i, g := range p.Gains {
			vals[i] = fmt.Sprintf("%g", g)
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\n", p.Name, strings.Join(vals, " "))
	}

	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
