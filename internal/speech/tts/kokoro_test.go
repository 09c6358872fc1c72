package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/speech/audio"
)

// createTempWAV encodes buf into a temp file and returns the raw bytes.
// The WAV encoder needs a seekable target, so an in-memory writer won't do.
func createTempWAV(t *testing.T, buf *audio.Buffer) ([]byte, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resp.wav")
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := audio.EncodeWAV(f, buf); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// wavResponse encodes a short tone the way the Kokoro server would.
func wavResponse(t *testing.T, w http.ResponseWriter) {
	t.Helper()
	samples := make([]int, 512)
	for i := range samples {
		samples[i] = (i % 64) * 100
	}
	buf := &audio.Buffer{Samples: samples, SampleRate: 24000, Channels: 1}

	data, err := createTempWAV(t, buf)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "audio/wav")
	_, err = w.Write(data)
	require.NoError(t, err)
}

func TestKokoroSynthesize(t *testing.T) {
	var got kokoroSpeechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/speech", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		wavResponse(t, w)
	}))
	defer srv.Close()

	engine := NewKokoroEngine(KokoroConfig{URL: srv.URL})
	buf, err := engine.Synthesize(context.Background(), "Hello world", "af_heart", 1.25)
	require.NoError(t, err)

	assert.Equal(t, "Hello world", got.Input)
	assert.Equal(t, "af_heart", got.Voice)
	assert.Equal(t, 1.25, got.Speed)
	assert.Equal(t, "wav", got.ResponseFormat)
	assert.Equal(t, "kokoro", got.Model)

	assert.Equal(t, 24000, buf.SampleRate)
	assert.Equal(t, 1, buf.Channels)
	assert.NotEmpty(t, buf.Samples)
}

func TestKokoroSynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"voice not found: zz_nope"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	engine := NewKokoroEngine(KokoroConfig{URL: srv.URL})
	_, err := engine.Synthesize(context.Background(), "Hello", "zz_nope", 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestKokoroSynthesizeUnreachable(t *testing.T) {
	engine := NewKokoroEngine(KokoroConfig{URL: "http://127.0.0.1:1"})
	_, err := engine.Synthesize(context.Background(), "Hello", "af_heart", 1.0)
	assert.Error(t, err)
}

func TestKokoroVoicesFromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/voices", r.URL.Path)
		json.NewEncoder(w).Encode(kokoroVoicesResponse{Voices: []string{"af_heart", "af_custom"}})
	}))
	defer srv.Close()

	engine := NewKokoroEngine(KokoroConfig{URL: srv.URL})
	voices, err := engine.Voices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"af_heart", "af_custom"}, voices)
}

func TestKokoroVoicesUnreachableIsAnError(t *testing.T) {
	// No guessed voice list when the server cannot be asked; callers fall
	// back to accepting any voice instead of rejecting valid ones.
	engine := NewKokoroEngine(KokoroConfig{URL: "http://127.0.0.1:1"})
	voices, err := engine.Voices(context.Background())
	assert.Error(t, err)
	assert.Nil(t, voices)
}

func TestKokoroVoicesEmptyListingIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(kokoroVoicesResponse{})
	}))
	defer srv.Close()

	engine := NewKokoroEngine(KokoroConfig{URL: srv.URL})
	_, err := engine.Voices(context.Background())
	assert.Error(t, err)
}

func TestMockEngineCounting(t *testing.T) {
	m := NewMockEngine()
	ctx := context.Background()

	buf, err := m.Synthesize(ctx, "Hello there world", "af_heart", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1, m.CallCount())
	assert.Equal(t, mockSampleRate, buf.SampleRate)
	assert.NotEmpty(t, buf.Samples)

	m.Fail(assert.AnError)
	_, err = m.Synthesize(ctx, "boom", "af_heart", 1.0)
	assert.Error(t, err)
	assert.Equal(t, 2, m.CallCount())
}
