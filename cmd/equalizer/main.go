// Command equalizer plays a test tone or an MP3 file through the multiband
// equalizer and lets band gains be changed live from stdin.
//
// Usage:
//
//	equalizer [flags]
//
// Examples:
//
//	equalizer -tone 1000 -amplitude 0.3
//	equalizer -mp3 song.mp3 -loop -preset v-shape -wide
//	equalizer -gains "1,1,0.5,1,2" -log-level debug -stats 2s
//
// Commands on stdin:
//
//	set <band> <gain>   band by label or index, gain linear or "-6dB"
//	preset <name>       apply a gain preset
//	flat                set every band to unity
//	gains               print stored and effective gains
//	help                list commands
//	quit                stop playback
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/dsp/filter/bank"
	"github.com/cwbudde/algo-eq/internal/device"
	"github.com/cwbudde/algo-eq/internal/source"
	"github.com/sirupsen/logrus"
)

type options struct {
	rate      int
	block     int
	order     int
	bands     string
	gains     string
	preset    string
	wide      bool
	threshold float64
	tone      float64
	amplitude float64
	mp3       string
	loop      bool
	channels  int
	dither    bool
	buffer    time.Duration
	logLevel  string
	stats     time.Duration
}

func parseFlags() options {
	var o options

	flag.IntVar(&o.rate, "rate", 48000, "sample rate in Hz for the test tone (MP3 files use their own rate)")
	flag.IntVar(&o.block, "block", 512, "block size in samples")
	flag.IntVar(&o.order, "order", bank.DefaultOrder, "Butterworth prototype order per band")
	flag.StringVar(&o.bands, "bands", "", "band list low-high[:label],... (default: five-band layout)")
	flag.StringVar(&o.gains, "gains", "", "initial gains, comma separated, linear or dB (\"-6dB\")")
	flag.StringVar(&o.preset, "preset", "", "initial gain preset ("+strings.Join(eq.PresetNames(), ", ")+")")
	flag.BoolVar(&o.wide, "wide", false, "allow gains up to 5x instead of 2x")
	flag.Float64Var(&o.threshold, "threshold", 0.9, "peak limiter threshold (0, 1]")
	flag.Float64Var(&o.tone, "tone", source.DefaultToneHz, "test tone frequency in Hz")
	flag.Float64Var(&o.amplitude, "amplitude", source.DefaultToneAmplitude, "test tone amplitude [0, 1]")
	flag.StringVar(&o.mp3, "mp3", "", "MP3 file to play instead of the test tone")
	flag.BoolVar(&o.loop, "loop", false, "loop the MP3 file")
	flag.IntVar(&o.channels, "channels", 2, "output channels (1 or 2)")
	flag.BoolVar(&o.dither, "dither", true, "add TPDF dither before 16-bit conversion")
	flag.DurationVar(&o.buffer, "buffer", device.DefaultBufferSize, "device buffer duration")
	flag.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.DurationVar(&o.stats, "stats", 5*time.Second, "stream statistics interval, 0 to disable")
	flag.Parse()

	return o
}

func main() {
	o := parseFlags()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logger.SetLevel(level)

	if err := run(o, logger); err != nil {
		logger.WithField("error", err.Error()).Error("Equalizer failed")
		os.Exit(1)
	}
}

func run(o options, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(o)
	if err != nil {
		return err
	}

	proc, err := newProcessor(o, src.SampleRate(), logger)
	if err != nil {
		src.Close()
		return err
	}

	ctl, err := eq.NewController(proc)
	if err != nil {
		src.Close()
		return err
	}

	if o.preset != "" {
		p, err := eq.LookupPreset(o.preset)
		if err != nil {
			src.Close()
			return err
		}

		if err := ctl.ApplyPreset(p); err != nil {
			src.Close()
			return err
		}
	}

	streamOpts := []device.StreamOption{
		device.WithChannels(o.channels),
		device.WithStreamLogger(logger),
	}
	if o.dither {
		streamOpts = append(streamOpts, device.WithDither(time.Now().UnixNano()))
	}

	stream, err := device.NewStream(proc, src, streamOpts...)
	if err != nil {
		src.Close()
		return err
	}
	defer stream.Close()

	out, err := device.OpenOto(stream, o.buffer)
	if err != nil {
		return err
	}
	defer out.Close()

	if o.stats > 0 {
		mon := eq.NewMonitor(proc, o.stats)
		mon.OnReport(func(s eq.Stats) {
			logger.WithFields(logrus.Fields{
				"blocks":  s.Blocks,
				"limited": s.LimitedBlocks,
				"levels":  formatLevels(ctl.Labels(), s.BandLevels),
			}).Info("Stream statistics")
		})

		if err := mon.Start(ctx); err != nil {
			return err
		}
		defer mon.Stop()
	}

	out.Play()
	printBands(os.Stdout, proc)
	fmt.Println(`Type "help" for commands.`)

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin closed; keep playing until a signal or the end of the source.
				lines = nil
				continue
			}

			quit, err := execute(ctl, line, os.Stdout)
			if err != nil {
				fmt.Fprintf(os.Stdout, "error: %v\n", err)
			}

			if quit {
				return nil
			}
		case <-ticker.C:
			if err := out.Err(); err != nil {
				return err
			}

			if !out.IsPlaying() {
				logger.WithField("blocks", stream.Blocks()).Info("Source finished")
				return nil
			}
		}
	}
}

func openSource(o options) (source.Source, error) {
	if o.mp3 != "" {
		return source.OpenMP3(o.mp3, o.loop)
	}

	return source.NewTone(o.tone, o.amplitude, o.rate)
}

func newProcessor(o options, rate int, logger *logrus.Logger) (*eq.Processor, error) {
	specs := eq.DefaultBands()
	if o.bands != "" {
		var err error
		if specs, err = bank.ParseSpecs(o.bands); err != nil {
			return nil, err
		}
	}

	opts := []eq.Option{
		eq.WithSampleRate(float64(rate)),
		eq.WithBlockSize(o.block),
		eq.WithOrder(o.order),
		eq.WithThreshold(o.threshold),
		eq.WithLogger(logger),
	}
	if o.wide {
		opts = append(opts, eq.WithGainRange(eq.GainRangeWide))
	}

	if o.gains != "" {
		gains, err := eq.ParseGains(o.gains)
		if err != nil {
			return nil, err
		}

		opts = append(opts, eq.WithInitialGains(gains))
	}

	return eq.New(specs, opts...)
}

func readLines(f *os.File, lines chan<- string) {
	defer close(lines)

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines <- sc.Text()
	}
}
