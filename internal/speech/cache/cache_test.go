package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/speech/audio"
)

func testBuffer(n int) *audio.Buffer {
	samples := make([]int, n)
	for i := range samples {
		samples[i] = (i*131)%8192 - 4096
	}
	return &audio.Buffer{Samples: samples, SampleRate: 24000, Channels: 1}
}

func TestLookupMissIsNotAnError(t *testing.T) {
	c := New(t.TempDir())
	buf, ok, err := c.Lookup("0000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, buf)
}

func TestLookupMissOnAbsentRoot(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "never-created"))
	_, ok, err := c.Lookup("abc123")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreLookupRoundTrip(t *testing.T) {
	// Root does not exist yet; Store must create it.
	root := filepath.Join(t.TempDir(), "audio")
	c := New(root)

	orig := testBuffer(4096)
	require.NoError(t, c.Store("deadbeef", orig))

	got, ok, err := c.Lookup("deadbeef")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, orig.Samples, got.Samples)
	assert.Equal(t, orig.SampleRate, got.SampleRate)
	assert.Equal(t, orig.Channels, got.Channels)
}

func TestStoreLeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	c := New(root)
	require.NoError(t, c.Store("cafe", testBuffer(256)))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cafe.wav", entries[0].Name())
}

func TestStoreOverwriteIsIdempotent(t *testing.T) {
	c := New(t.TempDir())
	buf := testBuffer(512)
	require.NoError(t, c.Store("abab", buf))
	require.NoError(t, c.Store("abab", buf))

	got, ok, err := c.Lookup("abab")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, buf.Samples, got.Samples)
}

func TestStoreFailsOnUnwritableRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0500))
	t.Cleanup(func() { os.Chmod(root, 0755) })

	c := New(root)
	err := c.Store("feed", testBuffer(16))
	assert.Error(t, err)
}

func TestCorruptEntryIsAnError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.wav"), []byte("junk"), 0644))

	c := New(root)
	_, _, err := c.Lookup("bad")
	assert.Error(t, err)
}

func TestStatsAndClear(t *testing.T) {
	root := t.TempDir()
	c := New(root)

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	require.NoError(t, c.Store("k1", testBuffer(128)))
	require.NoError(t, c.Store("k2", testBuffer(128)))

	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Greater(t, stats.TotalBytes, int64(0))

	require.NoError(t, c.Clear())
	stats, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestClearAbsentRootIsNoop(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing"))
	assert.NoError(t, c.Clear())
}
