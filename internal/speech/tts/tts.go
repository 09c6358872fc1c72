// Package tts provides the synthesis engine interface and its
// implementations: a local Kokoro server client, Google Cloud TTS,
// ElevenLabs, and a deterministic mock for tests.
package tts

import (
	"context"
	"time"

	"murmur/internal/speech/audio"
)

// Engine converts text into an audio buffer. Implementations are external
// collaborators; callers never cache a failed synthesis.
type Engine interface {
	// Synthesize produces audio for the text in the given voice at the
	// given speed multiplier (1.0 = normal). Potentially slow (seconds).
	Synthesize(ctx context.Context, text, voice string, speed float64) (*audio.Buffer, error)

	// Voices lists the voice identifiers the engine accepts. An error
	// means the listing is unavailable, not that the engine has no
	// voices; callers then defer voice validation to the model.
	Voices(ctx context.Context) ([]string, error)

	// Name identifies the engine in logs and acknowledgements.
	Name() string

	// Close releases any engine resources.
	Close() error
}

// Config selects and configures an engine.
type Config struct {
	Type       string
	Kokoro     KokoroConfig
	Google     GoogleConfig
	ElevenLabs ElevenLabsConfig
}

// KokoroConfig configures the local Kokoro server client.
type KokoroConfig struct {
	URL     string        // base URL of the Kokoro FastAPI server
	Model   string        // model identifier sent with each request
	Timeout time.Duration // per-request timeout
}

// GoogleConfig configures the Google Cloud TTS engine.
type GoogleConfig struct {
	LanguageCode string
	SampleRate   int
}

// ElevenLabsConfig configures the ElevenLabs engine.
type ElevenLabsConfig struct {
	APIKey  string
	ModelID string
	Timeout time.Duration
}
