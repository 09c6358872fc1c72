// Package speech implements the text-to-speech pipeline: request
// validation, cache key derivation, and the Speaker that routes a request
// through cache, synthesis engine and playback sink.
package speech

import (
	"fmt"
	"time"
)

// Defaults applied to requests that omit voice or speed.
const (
	DefaultVoice = "af_heart"
	DefaultSpeed = 1.0
)

// approvalSpeed is the slightly hurried speed used for approval prompts.
const approvalSpeed = 1.1

// Request describes a single speech invocation. Immutable once built.
// A zero Speed (or empty Voice) means "use the speaker default"; callers
// that can distinguish an explicit zero from an omitted value must reject
// the explicit zero before building a Request.
type Request struct {
	Text  string
	Voice string
	Speed float64
}

// withDefaults fills omitted fields from the speaker defaults.
func (r Request) withDefaults(voice string, speed float64) Request {
	if r.Voice == "" {
		r.Voice = voice
	}
	if r.Speed == 0 {
		r.Speed = speed
	}
	return r
}

// Result reports what a Speak call did.
type Result struct {
	Key      string
	CacheHit bool
	Duration time.Duration
}

// ApprovalPhrase renders the fixed wording for an audible approval prompt.
func ApprovalPhrase(requestText string) string {
	return fmt.Sprintf("Attention required. %s. Do you approve?", requestText)
}

// TaskPhrase renders the fixed wording for a task status announcement.
func TaskPhrase(taskName, status string) string {
	return fmt.Sprintf("Task %s has %s.", taskName, status)
}
