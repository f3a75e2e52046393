// Package eq is the streaming multiband equalizer engine.
//
// A [Processor] owns a filter bank, a gain stage and a block limiter and
// exposes the real-time callback body [Processor.OnBlock]:
//
//	sanitize input -> bank.ProcessBlock -> GainStage.Apply -> limiter
//
// OnBlock never blocks, never allocates and never panics out; every failure
// yields a silent block and an error value. Per-band gains live in a
// [GainVector] of atomically published float64 values, written by a
// [Controller] on a control goroutine and read once per block by the audio
// goroutine. Gains are clamped to the active [GainRange] when read.
//
// Processor lifecycle:
//
//	Uninitialized --Configure--> Configured --Start--> Running --Stop--> Stopped
//	                                             ^                          |
//	                                             +-------- Start -----------+
//
// Starting from Stopped clears all filter state. Lifecycle methods log through
// logrus; OnBlock only updates atomic counters that a [Monitor] reports.
package eq
