package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// speedPrecision fixes the textual rendering of speed before hashing so
// that semantically equal floats (1.0 vs 1) collapse to the same key.
const speedPrecision = 3

// Key derives the content-addressed cache key for a (text, voice, speed)
// triple. Fields are length-prefixed so no pair of distinct triples can
// concatenate to the same hash input.
func Key(text, voice string, speed float64) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: text must not be empty", ErrInvalidArgument)
	}
	if speed <= 0 {
		return "", fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidArgument, speed)
	}

	input := fmt.Sprintf("%d:%s|%d:%s|%s",
		len(text), text,
		len(voice), voice,
		strconv.FormatFloat(speed, 'f', speedPrecision, 64))

	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]), nil
}
