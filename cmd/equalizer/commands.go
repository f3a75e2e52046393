package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-eq/dsp/eq"
)

const helpText = `Commands:
  set <band> <gain>   band by label or index, gain linear or in dB ("-6dB")
  preset <name>       apply a gain preset
  flat                set every band to unity
  gains               print stored and effective gains
  help                show this list
  quit                stop playback
`

// execute runs one control command against ctl and reports whether the user
// asked to quit.
func execute(ctl *eq.Controller, line string, w io.Writer) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		_, err := io.WriteString(w, helpText)
		return false, err
	case "flat":
		ctl.Flat()
		return false, printGains(w, ctl)
	case "gains":
		return false, printGains(w, ctl)
	case "preset":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: preset <%s>", strings.Join(eq.PresetNames(), "|"))
		}

		p, err := eq.LookupPreset(fields[1])
		if err != nil {
			return false, err
		}

		if err := ctl.ApplyPreset(p); err != nil {
			return false, err
		}

		return false, printGains(w, ctl)
	case "set":
		if len(fields) < 3 {
			return false, fmt.Errorf("usage: set <band> <gain>")
		}

		// Labels may contain spaces ("upper mids"); the gain is the last field.
		name := strings.Join(fields[1:len(fields)-1], " ")

		band, err := ctl.BandIndex(name)
		if err != nil {
			return false, err
		}

		g, err := eq.ParseGain(fields[len(fields)-1])
		if err != nil {
			return false, err
		}

		if err := ctl.SetGain(band, g); err != nil {
			return false, err
		}

		return false, printGains(w, ctl)
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func printGains(w io.Writer, ctl *eq.Controller) error {
	labels := ctl.Labels()
	stored := ctl.Gains()
	effective := ctl.EffectiveGains()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tBand\tGain\tApplied\t[dB]\n")

	for i := range labels {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\t%s\n", i, labels[i], stored[i], effective[i], db(effective[i]))
	}

	return tw.Flush()
}

func printBands(w io.Writer, proc *eq.Processor) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tBand\tRange [Hz]\n")

	for i, s := range proc.Bands() {
		fmt.Fprintf(tw, "%d\t%s\t%g-%g\n", i, s.Name(), s.LowHz, s.HighHz)
	}

	_ = tw.Flush()
	fmt.Fprintf(w, "%v Hz, block %d, order %d, gain range %s\n",
		proc.SampleRate(), proc.BlockSize(), proc.Order(), proc.GainRange())
}

func db(linear float64) string {
	if linear <= 0 {
		return "-inf"
	}

	return fmt.Sprintf("%+.1f", 20*math.Log10(linear))
}

func formatLevels(labels []string, levels []float64) string {
	parts := make([]string, 0, len(levels))
	for i, l := range levels {
		name := fmt.Sprint(i)
		if i < len(labels) {
			name = labels[i]
		}

		parts = append(parts, fmt.Sprintf("%s=%s", name, db(l)))
	}

	return strings.Join(parts, " ")
}
