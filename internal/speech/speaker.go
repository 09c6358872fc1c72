package speech

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"murmur/internal/speech/cache"
	"murmur/internal/speech/player"
	"murmur/internal/speech/tts"
)

// Options configures a Speaker. The cache root is explicit so tests can
// point each run at an isolated temporary directory.
type Options struct {
	CacheDir     string
	DefaultVoice string   // falls back to DefaultVoice when empty
	DefaultSpeed float64  // falls back to DefaultSpeed when zero
	VoiceSet     []string // when non-empty, requests must use one of these
}

// Speaker routes a speech request through key derivation, the audio
// cache, the synthesis engine and the playback sink. Caching is a pure
// optimization: a cache failure never prevents synthesis or playback.
type Speaker struct {
	opts   Options
	cache  *cache.Cache
	engine tts.Engine
	sink   player.Sink
	log    *logrus.Entry
}

// NewSpeaker wires a dispatcher from its collaborators.
func NewSpeaker(engine tts.Engine, sink player.Sink, opts Options) (*Speaker, error) {
	if engine == nil {
		return nil, fmt.Errorf("speaker requires a synthesis engine")
	}
	if sink == nil {
		return nil, fmt.Errorf("speaker requires a playback sink")
	}
	if opts.CacheDir == "" {
		return nil, fmt.Errorf("speaker requires a cache directory")
	}
	if opts.DefaultVoice == "" {
		opts.DefaultVoice = DefaultVoice
	}
	if opts.DefaultSpeed == 0 {
		opts.DefaultSpeed = DefaultSpeed
	}

	return &Speaker{
		opts:   opts,
		cache:  cache.New(opts.CacheDir),
		engine: engine,
		sink:   sink,
		log:    logrus.WithField("engine", engine.Name()),
	}, nil
}

// Cache exposes the underlying cache for management commands.
func (s *Speaker) Cache() *cache.Cache {
	return s.cache
}

// Speak validates the request, applies defaults, and plays the audio for
// it — from cache when possible, synthesizing and caching otherwise.
//
// Error kinds follow the pipeline policy: ErrInvalidArgument before any
// cache or model work, ErrModelFailure when synthesis fails (nothing
// cached), ErrDeviceFailure when playback fails after a successful
// synthesis or cache hit. Cache IO failures are logged and absorbed.
func (s *Speaker) Speak(ctx context.Context, req Request) (Result, error) {
	req = req.withDefaults(s.opts.DefaultVoice, s.opts.DefaultSpeed)

	if err := s.validate(req); err != nil {
		return Result{}, err
	}

	key, err := Key(req.Text, req.Voice, req.Speed)
	if err != nil {
		return Result{}, err
	}
	res := Result{Key: key}

	buf, hit, err := s.cache.Lookup(key)
	if err != nil {
		// Unreadable or corrupt entry: treat as a miss, synthesis will
		// rewrite it.
		s.log.WithError(fmt.Errorf("%w: %v", ErrIOFailure, err)).Warn("Cache lookup failed")
		hit = false
	}
	res.CacheHit = hit

	if !hit {
		buf, err = s.engine.Synthesize(ctx, req.Text, req.Voice, req.Speed)
		if err != nil {
			return res, fmt.Errorf("%w: %v", ErrModelFailure, err)
		}
		if storeErr := s.cache.Store(key, buf); storeErr != nil {
			// Non-fatal: playback proceeds from the fresh buffer.
			s.log.WithError(fmt.Errorf("%w: %v", ErrIOFailure, storeErr)).Warn("Failed to cache synthesized audio")
		}
	}
	res.Duration = buf.Duration()

	s.log.WithFields(logrus.Fields{
		"voice":     req.Voice,
		"speed":     req.Speed,
		"cache_hit": hit,
		"key":       key,
	}).Info("Speaking")

	if err := s.sink.Play(ctx, buf); err != nil {
		return res, fmt.Errorf("%w: %v", ErrDeviceFailure, err)
	}
	return res, nil
}

// AskApproval speaks an approval prompt built from the request text, in
// the default voice at the approval speed.
func (s *Speaker) AskApproval(ctx context.Context, requestText string) (Result, error) {
	if requestText == "" {
		return Result{}, fmt.Errorf("%w: request_text must not be empty", ErrInvalidArgument)
	}
	return s.Speak(ctx, Request{
		Text:  ApprovalPhrase(requestText),
		Speed: approvalSpeed,
	})
}

// AnnounceTask speaks a task status announcement. Status defaults to
// "completed".
func (s *Speaker) AnnounceTask(ctx context.Context, taskName, status string) (Result, error) {
	if taskName == "" {
		return Result{}, fmt.Errorf("%w: task_name must not be empty", ErrInvalidArgument)
	}
	if status == "" {
		status = "completed"
	}
	return s.Speak(ctx, Request{Text: TaskPhrase(taskName, status)})
}

func (s *Speaker) validate(req Request) error {
	if req.Text == "" {
		return fmt.Errorf("%w: text must not be empty", ErrInvalidArgument)
	}
	if req.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidArgument, req.Speed)
	}
	if len(s.opts.VoiceSet) > 0 && !contains(s.opts.VoiceSet, req.Voice) {
		return fmt.Errorf("%w: unknown voice %q", ErrInvalidArgument, req.Voice)
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
