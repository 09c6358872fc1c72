package player

import (
	"context"
	"sync"

	"murmur/internal/speech/audio"
)

// MockSink records played buffers instead of touching an audio device.
type MockSink struct {
	mu      sync.Mutex
	played  []*audio.Buffer
	failErr error
}

// NewMockSink creates a recording sink for tests.
func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) Play(ctx context.Context, buf *audio.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.played = append(m.played, buf)
	return nil
}

// Played returns the buffers handed to Play, in order.
func (m *MockSink) Played() []*audio.Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*audio.Buffer, len(m.played))
	copy(out, m.played)
	return out
}

// Fail makes subsequent Play calls return err; pass nil to reset.
func (m *MockSink) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}
