package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"murmur/internal/speech/audio"
)

// KokoroEngine talks to a local Kokoro FastAPI server through its
// OpenAI-compatible speech endpoint.
type KokoroEngine struct {
	config KokoroConfig
	client *http.Client
}

type kokoroSpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed"`
	ResponseFormat string  `json:"response_format"`
}

type kokoroVoicesResponse struct {
	Voices []string `json:"voices"`
}

// NewKokoroEngine creates a Kokoro client. The server is not contacted
// until the first synthesis call.
func NewKokoroEngine(config KokoroConfig) *KokoroEngine {
	if config.URL == "" {
		config.URL = "http://localhost:8880"
	}
	if config.Model == "" {
		config.Model = "kokoro"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &KokoroEngine{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (k *KokoroEngine) Name() string {
	return EngineTypeKokoro.String()
}

// Synthesize requests WAV audio for the text and decodes it into a buffer.
func (k *KokoroEngine) Synthesize(ctx context.Context, text, voice string, speed float64) (*audio.Buffer, error) {
	payload, err := json.Marshal(kokoroSpeechRequest{
		Model:          k.config.Model,
		Input:          text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: "wav",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode speech request: %w", err)
	}

	url := k.config.URL + "/v1/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kokoro server unreachable at %s: %w", k.config.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("kokoro server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	buf, err := audio.DecodeWAV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("kokoro returned undecodable audio: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"voice":   voice,
		"speed":   speed,
		"chars":   len(text),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("Synthesized audio via kokoro")
	return buf, nil
}

// Voices asks the server for its voice list. The server is authoritative:
// an unreachable or malformed listing is an error, never a stale guess,
// so callers know when they cannot bound the accepted voices.
func (k *KokoroEngine) Voices(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.config.URL+"/v1/audio/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build voices request: %w", err)
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kokoro server unreachable at %s: %w", k.config.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kokoro server returned status %d listing voices", resp.StatusCode)
	}

	var listing kokoroVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode voice listing: %w", err)
	}
	if len(listing.Voices) == 0 {
		return nil, fmt.Errorf("kokoro server returned an empty voice listing")
	}
	return listing.Voices, nil
}

func (k *KokoroEngine) Close() error {
	k.client.CloseIdleConnections()
	return nil
}
