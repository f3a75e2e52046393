// Package design computes the band-pass coefficients used by the equalizer
// filter bank.
//
// [ButterworthBandpass] turns a (low, high) cutoff pair into a cascade of
// second-order sections consumable by dsp/filter/biquad. The design is
// performed once per band at stream setup or reconfiguration; nothing in this
// package runs on the audio path.
package design
