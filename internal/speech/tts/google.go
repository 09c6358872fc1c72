package tts

import (
	"bytes"
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"

	"murmur/internal/speech/audio"
)

// GoogleClassicEngine synthesizes speech through the Google Cloud
// Text-to-Speech API. Requires GOOGLE_APPLICATION_CREDENTIALS.
type GoogleClassicEngine struct {
	client *texttospeech.Client
	config GoogleConfig
}

func newGoogleClassicEngine(config GoogleConfig) (*GoogleClassicEngine, error) {
	if config.LanguageCode == "" {
		config.LanguageCode = "en-US"
	}
	if config.SampleRate == 0 {
		config.SampleRate = 24000
	}

	client, err := texttospeech.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create Google TTS client: %w", err)
	}
	return &GoogleClassicEngine{client: client, config: config}, nil
}

func (g *GoogleClassicEngine) Name() string {
	return EngineTypeGoogleClassic.String()
}

// Synthesize requests LINEAR16 audio, which the API delivers in a WAV
// container, and decodes it into a buffer.
func (g *GoogleClassicEngine) Synthesize(ctx context.Context, text, voice string, speed float64) (*audio.Buffer, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: g.config.LanguageCode,
			Name:         voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:   texttospeechpb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(g.config.SampleRate),
			SpeakingRate:    speed,
		},
	}

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("google synthesis failed: %w", err)
	}

	buf, err := audio.DecodeWAV(bytes.NewReader(resp.AudioContent))
	if err != nil {
		return nil, fmt.Errorf("google returned undecodable audio: %w", err)
	}
	return buf, nil
}

// Voices lists voice names matching the configured language.
func (g *GoogleClassicEngine) Voices(ctx context.Context) ([]string, error) {
	resp, err := g.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{
		LanguageCode: g.config.LanguageCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list Google voices: %w", err)
	}

	voices := make([]string, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, v.Name)
	}
	return voices, nil
}

func (g *GoogleClassicEngine) Close() error {
	return g.client.Close()
}
