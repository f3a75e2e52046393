package eq

import (
	"errors"

	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

// Sentinel errors for eq operations. Match them with errors.Is.
var (
	// ErrInvalidBand indicates a band outside (0, sampleRate/2) or inverted.
	ErrInvalidBand = design.ErrInvalidBand

	// ErrConfiguration indicates an empty band list, a bad stream setting or a
	// gain vector whose length does not match the bands at setup.
	ErrConfiguration = errors.New("eq: invalid configuration")

	// ErrShapeMismatch indicates a gain or block count that does not match the
	// configured stream.
	ErrShapeMismatch = errors.New("eq: shape mismatch")

	// ErrInvalidState indicates an operation not allowed in the current
	// processor state.
	ErrInvalidState = errors.New("eq: invalid processor state")

	// ErrIndex indicates a band index outside [0, N).
	ErrIndex = errors.New("eq: band index out of range")

	// ErrFault is returned by OnBlock after it recovered from an internal
	// panic and emitted silence.
	ErrFault = errors.New("eq: internal fault in block processing")

	// ErrAlreadyRunning is returned when starting a monitor twice.
	ErrAlreadyRunning = errors.New("eq: monitor is already running")
)
