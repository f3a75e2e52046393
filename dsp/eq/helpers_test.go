package eq

import (
	"testing"

	"github.com/cwbudde/algo-eq/dsp/effects/dynamics"
	"github.com/cwbudde/algo-eq/internal/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testBlock = 256

// newRunning returns a started processor on the default bands that logs into
// the returned hook.
func newRunning(t *testing.T, opts ...Option) (*Processor, *test.Hook) {
	t.Helper()

	p, hook := newConfigured(t, opts...)
	require.NoError(t, p.Start())

	return p, hook
}

func newConfigured(t *testing.T, opts ...Option) (*Processor, *test.Hook) {
	t.Helper()

	logger, hook := newNullLogger()

	all := append([]Option{WithBlockSize(testBlock), WithLogger(logger)}, opts...)
	p, err := New(DefaultBands(), all...)
	require.NoError(t, err)

	return p, hook
}

func newNullLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	return logger, hook
}

// run feeds signal through p block by block and returns the joined output.
func run(t *testing.T, p *Processor, signal []float64) []float64 {
	t.Helper()

	blocks := testutil.Split(signal, p.BlockSize())
	out := make([][]float64, len(blocks))

	for i, in := range blocks {
		out[i] = make([]float64, len(in))
		require.NoError(t, p.Process(out[i], in))
	}

	return testutil.Join(out)
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}

	return out
}

// panicLimiter fails inside the audio path.
type panicLimiter struct{}

func (panicLimiter) ProcessInPlace([]float64) dynamics.Result { panic("limiter exploded") }
func (panicLimiter) Reset()                                   {}
