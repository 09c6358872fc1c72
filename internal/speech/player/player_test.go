package player

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/speech/audio"
)

func TestStreamerMono(t *testing.T) {
	buf := &audio.Buffer{Samples: []int{16384, -16384, 0}, SampleRate: 24000, Channels: 1}
	s := newStreamer(buf)

	out := make([][2]float64, 8)
	n, ok := s.Stream(out)
	require.True(t, ok)
	require.Equal(t, 3, n)

	// Mono is duplicated onto both channels.
	assert.Equal(t, 0.5, out[0][0])
	assert.Equal(t, 0.5, out[0][1])
	assert.Equal(t, -0.5, out[1][0])
	assert.Equal(t, 0.0, out[2][0])

	n, ok = s.Stream(out)
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestStreamerStereo(t *testing.T) {
	buf := &audio.Buffer{Samples: []int{16384, -16384, 8192, -8192}, SampleRate: 24000, Channels: 2}
	s := newStreamer(buf)

	out := make([][2]float64, 8)
	n, ok := s.Stream(out)
	require.True(t, ok)
	require.Equal(t, 2, n)
	assert.Equal(t, 0.5, out[0][0])
	assert.Equal(t, -0.5, out[0][1])
	assert.Equal(t, 0.25, out[1][0])
	assert.Equal(t, -0.25, out[1][1])
}

func TestMockSinkRecordsAndFails(t *testing.T) {
	sink := NewMockSink()
	buf := &audio.Buffer{Samples: []int{1}, SampleRate: 24000, Channels: 1}

	require.NoError(t, sink.Play(context.Background(), buf))
	assert.Len(t, sink.Played(), 1)

	sink.Fail(assert.AnError)
	assert.Error(t, sink.Play(context.Background(), buf))
	assert.Len(t, sink.Played(), 1)
}
