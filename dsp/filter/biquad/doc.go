// Package biquad provides the streaming second-order IIR runtime used by the
// equalizer's filter bank.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Its two delay-line values
// are the section's filter state: they persist between calls so that a
// stream split into blocks is filtered exactly like the unsplit stream.
// Sections are cascaded via [Chain] to realize higher-order band-pass
// filters. [ProcessCascade] is the same computation expressed as a pure
// function of coefficients, state and input.
//
// All arithmetic and state are float64. Block processing never allocates.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
