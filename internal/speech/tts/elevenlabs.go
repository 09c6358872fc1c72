package tts

import (
	"context"
	"fmt"
	"time"

	"github.com/haguro/elevenlabs-go"
	"github.com/sirupsen/logrus"

	"murmur/internal/speech/audio"
)

// elevenLabsSampleRate matches the pcm_24000 output format requested below.
const elevenLabsSampleRate = 24000

// ElevenLabsEngine synthesizes speech through the ElevenLabs API. The
// voice parameter is an ElevenLabs voice ID; the API has no speed control,
// so the speed parameter only contributes to cache keying.
type ElevenLabsEngine struct {
	config ElevenLabsConfig
}

func newElevenLabsEngine(config ElevenLabsConfig) (*ElevenLabsEngine, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("elevenlabs engine requires an API key")
	}
	if config.ModelID == "" {
		config.ModelID = "eleven_monolingual_v1"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &ElevenLabsEngine{config: config}, nil
}

func (e *ElevenLabsEngine) Name() string {
	return EngineTypeElevenLabs.String()
}

func (e *ElevenLabsEngine) Synthesize(ctx context.Context, text, voice string, speed float64) (*audio.Buffer, error) {
	if speed != 1.0 {
		logrus.WithField("speed", speed).Debug("ElevenLabs does not support speed, synthesizing at 1.0")
	}

	client := elevenlabs.NewClient(ctx, e.config.APIKey, e.config.Timeout)

	req := elevenlabs.TextToSpeechRequest{
		Text:    text,
		ModelID: e.config.ModelID,
	}
	data, err := client.TextToSpeech(voice, req, elevenlabs.OutputFormat("pcm_24000"))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesis failed: %w", err)
	}

	buf, err := audio.FromPCM16LE(data, elevenLabsSampleRate, 1)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs returned undecodable audio: %w", err)
	}
	return buf, nil
}

// Voices lists the voice IDs available to the account.
func (e *ElevenLabsEngine) Voices(ctx context.Context) ([]string, error) {
	client := elevenlabs.NewClient(ctx, e.config.APIKey, e.config.Timeout)

	voices, err := client.GetVoices()
	if err != nil {
		return nil, fmt.Errorf("failed to list ElevenLabs voices: %w", err)
	}

	ids := make([]string, 0, len(voices))
	for _, v := range voices {
		ids = append(ids, v.VoiceId)
	}
	return ids, nil
}

func (e *ElevenLabsEngine) Close() error {
	return nil
}
