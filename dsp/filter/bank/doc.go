// Package bank splits one input stream into a fixed set of band-pass
// filtered streams.
//
// A [Bank] is built once from an ordered list of [BandSpec] cutoff pairs and
// a sample rate. Every band owns a Butterworth band-pass cascade designed by
// dsp/filter/design and its own filter state; no state is shared between
// bands, so processing order among bands does not change the result.
//
// [Bank.ProcessBlock] filters one block through every band and returns
// per-band output blocks aligned with the configured band order. The output
// buffers are owned by the bank and reused across calls, so steady-state
// processing does not allocate.
//
// Basic usage:
//
//	b, err := bank.New([]bank.BandSpec{{LowHz: 60, HighHz: 250}, {LowHz: 250, HighHz: 1000}}, 48000)
//	if err != nil {
//	    return err
//	}
//	outs := b.ProcessBlock(block) // outs[band][sample]
//
// A [Meter] tracks a decaying peak level per band and can be fed with the
// output of ProcessBlock.
package bank
