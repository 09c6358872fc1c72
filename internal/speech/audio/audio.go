// Package audio defines the buffer value type shared by the synthesis
// engines, the disk cache and the playback sink, plus the WAV codec used
// for cache entries.
package audio

import (
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// Buffer holds decoded 16-bit PCM audio together with the metadata needed
// to play it back correctly.
type Buffer struct {
	Samples    []int // interleaved PCM16 samples
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	seconds := float64(b.Frames()) / float64(b.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// Validate checks that the buffer is playable.
func (b *Buffer) Validate() error {
	if b == nil || len(b.Samples) == 0 {
		return fmt.Errorf("audio buffer is empty")
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", b.SampleRate)
	}
	if b.Channels != 1 && b.Channels != 2 {
		return fmt.Errorf("unsupported channel count %d", b.Channels)
	}
	return nil
}

// EncodeWAV writes the buffer to w as a 16-bit PCM WAV stream.
func EncodeWAV(w io.WriteSeeker, b *Buffer) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("cannot encode: %w", err)
	}

	enc := wav.NewEncoder(w, b.SampleRate, bitDepth, b.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: b.Channels,
			SampleRate:  b.SampleRate,
		},
		Data:           b.Samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV stream: %w", err)
	}
	return nil
}

// DecodeWAV reads a WAV stream into a Buffer.
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV stream")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV data: %w", err)
	}
	if pcm.Format == nil {
		return nil, fmt.Errorf("WAV stream has no format information")
	}

	b := &Buffer{
		Samples:    pcm.Data,
		SampleRate: pcm.Format.SampleRate,
		Channels:   pcm.Format.NumChannels,
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("decoded WAV is not playable: %w", err)
	}
	return b, nil
}

// FromPCM16LE converts raw little-endian 16-bit PCM bytes into a Buffer.
// Engines that return headerless PCM (e.g. ElevenLabs pcm_* formats) use
// this instead of the WAV decoder.
func FromPCM16LE(data []byte, sampleRate, channels int) (*Buffer, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("odd PCM16 byte count %d", len(data))
	}
	samples := make([]int, len(data)/2)
	for i := range samples {
		samples[i] = int(int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8))
	}
	b := &Buffer{Samples: samples, SampleRate: sampleRate, Channels: channels}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
