// Package dynamics provides the output-stage level control of the equalizer.
//
// Included processors:
//   - PeakLimiter: per-block feed-forward limiter. If the block peak exceeds
//     the threshold the whole block is scaled down proportionally, then every
//     sample is hard-clipped to [-1, 1].
//
// Processors implement [BlockLimiter] so the stream processor can be given a
// different limiting policy without changing the audio path.
package dynamics
