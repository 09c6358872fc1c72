// Package player plays audio buffers through the local output device.
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/sirupsen/logrus"

	"murmur/internal/speech/audio"
)

// Sink plays a buffer through an audio output. Play blocks until playback
// completes or the context is cancelled.
type Sink interface {
	Play(ctx context.Context, buf *audio.Buffer) error
}

// Device plays buffers through the default audio output via beep/speaker.
// Playback is serialized: the device speaks one buffer at a time.
type Device struct {
	mu sync.Mutex
}

// NewDevice creates a speaker-backed sink. The audio device is opened
// lazily on the first Play.
func NewDevice() *Device {
	return &Device{}
}

// Play renders the buffer and blocks until it finishes. The speaker is
// (re)initialized at the buffer's sample rate, matching how entries of
// differing rates round-trip through the cache.
func (d *Device) Play(ctx context.Context, buf *audio.Buffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("refusing to play: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	sr := beep.SampleRate(buf.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(newStreamer(buf), beep.Callback(func() {
		close(done)
	})))

	logrus.WithFields(logrus.Fields{
		"duration":    buf.Duration().Round(time.Millisecond),
		"sample_rate": buf.SampleRate,
		"channels":    buf.Channels,
	}).Debug("Playing audio")

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// streamer adapts a PCM16 buffer to beep's float64 stereo stream.
type streamer struct {
	buf *audio.Buffer
	pos int // frame position
}

func newStreamer(buf *audio.Buffer) *streamer {
	return &streamer{buf: buf}
}

func (s *streamer) Stream(samples [][2]float64) (int, bool) {
	frames := s.buf.Frames()
	if s.pos >= frames {
		return 0, false
	}

	n := 0
	for ; n < len(samples) && s.pos < frames; n++ {
		if s.buf.Channels == 1 {
			v := pcmToFloat(s.buf.Samples[s.pos])
			samples[n][0] = v
			samples[n][1] = v
		} else {
			samples[n][0] = pcmToFloat(s.buf.Samples[s.pos*2])
			samples[n][1] = pcmToFloat(s.buf.Samples[s.pos*2+1])
		}
		s.pos++
	}
	return n, true
}

func (s *streamer) Err() error {
	return nil
}

func pcmToFloat(sample int) float64 {
	return float64(sample) / 32768.0
}
