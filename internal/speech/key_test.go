package speech

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDeterministic(t *testing.T) {
	k1, err := Key("Hello world", "af_heart", 1.0)
	require.NoError(t, err)
	k2, err := Key("Hello world", "af_heart", 1.0)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestKeyIsFilenameSafe(t *testing.T) {
	k, err := Key("weird / text \\ with.. path:chars\n", "af_heart", 1.0)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), k)
}

func TestKeyFieldSensitivity(t *testing.T) {
	base, err := Key("Hello world", "af_heart", 1.0)
	require.NoError(t, err)

	variants := []struct {
		name  string
		text  string
		voice string
		speed float64
	}{
		{"text", "Hello world!", "af_heart", 1.0},
		{"voice", "Hello world", "af_bella", 1.0},
		{"speed", "Hello world", "af_heart", 1.25},
	}
	for _, v := range variants {
		k, err := Key(v.text, v.voice, v.speed)
		require.NoError(t, err)
		assert.NotEqual(t, base, k, "changing %s should change the key", v.name)
	}
}

func TestKeyFieldBoundaries(t *testing.T) {
	// Length prefixes keep field contents from bleeding into each other.
	k1, err := Key("ab", "c", 1.0)
	require.NoError(t, err)
	k2, err := Key("a", "bc", 1.0)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestKeySpeedRepresentation(t *testing.T) {
	k1, err := Key("Hello", "af_heart", 1.0)
	require.NoError(t, err)
	k2, err := Key("Hello", "af_heart", 1)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	// Below the fixed precision the values collapse too.
	k3, err := Key("Hello", "af_heart", 1.0001)
	require.NoError(t, err)
	assert.Equal(t, k1, k3)
}

func TestKeyRejectsBadInput(t *testing.T) {
	_, err := Key("", "af_heart", 1.0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Key("Hello", "af_heart", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Key("Hello", "af_heart", -0.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
