package device

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

// DefaultBufferSize keeps device latency low while leaving headroom for
// scheduling jitter.
const DefaultBufferSize = 50 * time.Millisecond

// OtoOutput plays a Stream through the system audio device. oto pulls from
// the stream on its own goroutine, which is what drives Processor.OnBlock.
// Only one OtoOutput can exist per process.
type OtoOutput struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream
	log    *logrus.Entry
}

// OpenOto creates the oto context for the stream's format and a player
// reading from it. The player is paused until Play.
func OpenOto(stream *Stream, bufferSize time.Duration) (*OtoOutput, error) {
	if ch := stream.Channels(); ch != 1 && ch != 2 {
		return nil, fmt.Errorf("device: oto supports 1 or 2 channels, got %d", ch)
	}

	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	op := &oto.NewContextOptions{
		SampleRate:   int(stream.proc.SampleRate()),
		ChannelCount: stream.Channels(),
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferSize,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("device: create oto context: %w", err)
	}

	<-ready

	o := &OtoOutput{
		ctx:    ctx,
		player: ctx.NewPlayer(stream),
		stream: stream,
		log:    stream.log,
	}

	o.log.WithFields(logrus.Fields{
		"function":    "OpenOto",
		"sample_rate": op.SampleRate,
		"buffer":      bufferSize.String(),
	}).Info("Audio output initialized")

	return o, nil
}

// Play starts or resumes playback.
func (o *OtoOutput) Play() { o.player.Play() }

// Pause suspends playback. The stream keeps its position.
func (o *OtoOutput) Pause() { o.player.Pause() }

// IsPlaying reports whether the player is running.
func (o *OtoOutput) IsPlaying() bool { return o.player.IsPlaying() }

// Err returns a playback error reported by oto, if any.
func (o *OtoOutput) Err() error {
	if err := o.player.Err(); err != nil {
		return err
	}

	return o.ctx.Err()
}

// Close stops the stream first, so the processor is never called during
// teardown, then releases the player and suspends the device.
func (o *OtoOutput) Close() error {
	serr := o.stream.Stop()

	if err := o.player.Close(); err != nil {
		return fmt.Errorf("device: close player: %w", err)
	}

	if err := o.ctx.Suspend(); err != nil {
		return fmt.Errorf("device: suspend context: %w", err)
	}

	o.log.WithField("function", "OtoOutput.Close").Info("Audio output closed")

	return serr
}
