// Package source provides mono float64 sample sources for the equalizer
// runner: a sine test tone and MP3 files.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source produces mono samples in [-1, 1] at a fixed sample rate.
type Source interface {
	// Read fills dst and returns the number of samples written. At the end
	// of a finite source it returns io.EOF, possibly with n > 0.
	Read(dst []float64) (int, error)
	// SampleRate returns the native sample rate in Hz.
	SampleRate() int
	// Close releases the underlying resources.
	Close() error
}

// ErrUnsupportedFormat is returned by Open for file types it cannot decode.
var ErrUnsupportedFormat = errors.New("source: unsupported audio format")

// Open returns a source for path. An empty path returns the default test
// tone at sampleRate; ".mp3" files are decoded at their own rate.
func Open(path string, sampleRate int, loop bool) (Source, error) {
	if path == "" {
		return NewTone(DefaultToneHz, DefaultToneAmplitude, sampleRate)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return OpenMP3(path, loop)
	default:
		return nil, fmt.Errorf("%w: %q (supported: .mp3)", ErrUnsupportedFormat, ext)
	}
}

// OpenMP3 opens an MP3 file. With loop set, playback restarts at the end of
// the file instead of returning io.EOF.
func OpenMP3(path string, loop bool) (*MP3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open mp3: %w", err)
	}

	s, err := NewMP3(f, loop)
	if err != nil {
		f.Close()
		return nil, err
	}

	s.closer = f

	return s, nil
}
