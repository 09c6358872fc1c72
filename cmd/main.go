package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"murmur/internal/cli/scheme/colours"
	"murmur/internal/config"
	"murmur/internal/server"
	"murmur/internal/speech"
	"murmur/internal/speech/player"
	"murmur/internal/speech/tts"
)

var version = "0.3.0"

func main() {
	// Logs go to stderr so the MCP stdio transport owns stdout.
	logrus.SetOutput(os.Stderr)
	if os.Getenv("MURMUR_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("Shutting down")
		cancel()
	}()

	var (
		flagEngine   string
		flagVoice    string
		flagSpeed    float64
		flagCacheDir string
	)

	rootCmd := &cobra.Command{
		Use:   "murmur",
		Short: "🔊 Text-to-speech tools for agents, served over MCP",
		Long: `Murmur speaks text aloud through a local or cloud TTS engine,
caching synthesized audio on disk so repeated phrases replay instantly.

Run 'murmur serve' to expose the speak, ask_approval and announce_task
tools over MCP on stdio, or 'murmur speak' for a one-shot utterance.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagEngine != "" {
				cfg.TTS.Type = flagEngine
			}
			if flagVoice != "" {
				cfg.Voice = flagVoice
			}
			if flagSpeed != 0 {
				cfg.Speed = flagSpeed
			}
			if flagCacheDir != "" {
				cfg.CacheDir = flagCacheDir
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flagEngine, "engine", "e", "", "Synthesis engine (kokoro, googleclassic, elevenlabs, mock, auto)")
	rootCmd.PersistentFlags().StringVarP(&flagVoice, "voice", "v", "", "Default voice (e.g. af_heart, af_bella, am_adam)")
	rootCmd.PersistentFlags().Float64VarP(&flagSpeed, "speed", "s", 0, "Default speaking speed multiplier")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "Audio cache directory")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "🛰️ Serve the speech tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			speaker, engine, err := buildSpeaker(ctx, cfg)
			if err != nil {
				return err
			}
			defer engine.Close()
			return server.Run(ctx, server.New(speaker, version))
		},
	}

	speakCmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "🗣️ Speak the given text once and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			speaker, engine, err := buildSpeaker(ctx, cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			res, err := speaker.Speak(ctx, speech.Request{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			if res.CacheHit {
				colours.Info.Println("(replayed from cache)")
			}
			colours.Success.Printf("Spoke %.1fs of audio\n", res.Duration.Seconds())
			return nil
		},
	}

	voicesCmd := &cobra.Command{
		Use:   "voices",
		Short: "🎙️ List the voices the configured engine accepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := tts.New(cfg.TTS)
			if err != nil {
				return err
			}
			defer engine.Close()

			voices, err := engine.Voices(ctx)
			if err != nil {
				return err
			}
			colours.Heading.Printf("Voices (%s):\n", engine.Name())
			for _, v := range voices {
				fmt.Println("  " + v)
			}
			return nil
		},
	}

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "📦 Inspect or clear the audio cache",
	}

	cacheStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			speaker, engine, err := buildSpeaker(ctx, cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			stats, err := speaker.Cache().Stats()
			if err != nil {
				return err
			}
			colours.Heading.Println("Audio cache")
			colours.Key.Print("  root:    ")
			fmt.Println(stats.Root)
			colours.Key.Print("  entries: ")
			fmt.Println(stats.Entries)
			colours.Key.Print("  size:    ")
			fmt.Printf("%.1f KiB\n", float64(stats.TotalBytes)/1024)
			return nil
		},
	}

	cacheClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached audio entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			speaker, engine, err := buildSpeaker(ctx, cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := speaker.Cache().Clear(); err != nil {
				return err
			}
			colours.Success.Println("Cache cleared")
			return nil
		},
	}

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(serveCmd, speakCmd, voicesCmd, cacheCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// buildSpeaker wires the configured engine and the local audio device
// into a speaker. The engine's voice list, when it has one, bounds the
// voices requests may name.
func buildSpeaker(ctx context.Context, cfg config.Config) (*speech.Speaker, tts.Engine, error) {
	engine, err := tts.New(cfg.TTS)
	if err != nil {
		return nil, nil, err
	}

	voiceSet, err := engine.Voices(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Could not list engine voices; accepting any voice")
		voiceSet = nil
	}
	if voiceSet != nil && !sliceContains(voiceSet, cfg.Voice) {
		logrus.WithFields(logrus.Fields{
			"voice":  cfg.Voice,
			"engine": engine.Name(),
		}).Warn("Default voice not in engine voice list; accepting any voice")
		voiceSet = nil
	}

	speaker, err := speech.NewSpeaker(engine, player.NewDevice(), speech.Options{
		CacheDir:     cfg.CacheDir,
		DefaultVoice: cfg.Voice,
		DefaultSpeed: cfg.Speed,
		VoiceSet:     voiceSet,
	})
	if err != nil {
		engine.Close()
		return nil, nil, err
	}
	return speaker, engine, nil
}

func sliceContains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
