package tts

import (
	"context"
	"strings"
	"sync"
	"time"

	"murmur/internal/speech/audio"
)

const mockSampleRate = 24000

// MockEngine generates silence deterministically. Used by tests and as the
// last-resort auto-selection when no real engine is available.
type MockEngine struct {
	mu      sync.Mutex
	calls   int
	failErr error
}

// NewMockEngine creates a mock engine.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func (m *MockEngine) Name() string {
	return EngineTypeMock.String()
}

// Synthesize returns silence sized to the estimated speaking duration.
func (m *MockEngine) Synthesize(ctx context.Context, text, voice string, speed float64) (*audio.Buffer, error) {
	m.mu.Lock()
	m.calls++
	err := m.failErr
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	frames := int(estimateDuration(text, speed).Seconds() * mockSampleRate)
	if frames < 1 {
		frames = 1
	}
	return &audio.Buffer{
		Samples:    make([]int, frames),
		SampleRate: mockSampleRate,
		Channels:   1,
	}, nil
}

func (m *MockEngine) Voices(ctx context.Context) ([]string, error) {
	return []string{"af_heart", "af_bella", "am_adam"}, nil
}

func (m *MockEngine) Close() error {
	return nil
}

// CallCount reports how many times Synthesize was invoked.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Fail makes subsequent Synthesize calls return err; pass nil to reset.
func (m *MockEngine) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// estimateDuration assumes ~150 spoken words per minute at speed 1.0.
func estimateDuration(text string, speed float64) time.Duration {
	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}
	seconds := float64(words) * 60.0 / (150.0 * speed)
	return time.Duration(seconds * float64(time.Second))
}
