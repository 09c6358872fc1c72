// Package config loads murmur configuration from defaults, an optional
// YAML file and environment overrides into an explicit struct the rest
// of the program receives by value.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"murmur/internal/speech"
	"murmur/internal/speech/tts"
)

// Config is the resolved configuration of a murmur process.
type Config struct {
	Voice    string
	Speed    float64
	CacheDir string
	TTS      tts.Config
}

func setDefaults() {
	viper.SetDefault("tts.engine", tts.EngineTypeAuto.String())
	viper.SetDefault("tts.voice", speech.DefaultVoice)
	viper.SetDefault("tts.speed", speech.DefaultSpeed)

	viper.SetDefault("cache.dir", defaultCacheDir())

	viper.SetDefault("kokoro.url", "http://localhost:8880")
	viper.SetDefault("kokoro.model", "kokoro")
	viper.SetDefault("kokoro.timeout", 60*time.Second)

	viper.SetDefault("google.language_code", "en-US")
	viper.SetDefault("google.sample_rate", 24000)

	viper.SetDefault("elevenlabs.model_id", "eleven_monolingual_v1")
	viper.SetDefault("elevenlabs.timeout", 30*time.Second)
}

// Load reads murmur.yaml (if present) and returns the resolved config.
func Load() Config {
	setDefaults()

	viper.SetConfigName("murmur")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.murmur")
	viper.AddConfigPath(".")

	viper.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		logrus.WithField("file", viper.ConfigFileUsed()).Debug("Loaded config file")
	}

	return Config{
		Voice:    viper.GetString("tts.voice"),
		Speed:    viper.GetFloat64("tts.speed"),
		CacheDir: viper.GetString("cache.dir"),
		TTS: tts.Config{
			Type: viper.GetString("tts.engine"),
			Kokoro: tts.KokoroConfig{
				URL:     viper.GetString("kokoro.url"),
				Model:   viper.GetString("kokoro.model"),
				Timeout: viper.GetDuration("kokoro.timeout"),
			},
			Google: tts.GoogleConfig{
				LanguageCode: viper.GetString("google.language_code"),
				SampleRate:   viper.GetInt("google.sample_rate"),
			},
			ElevenLabs: tts.ElevenLabsConfig{
				APIKey:  viper.GetString("elevenlabs.api_key"),
				ModelID: viper.GetString("elevenlabs.model_id"),
				Timeout: viper.GetDuration("elevenlabs.timeout"),
			},
		},
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "murmur", "audio")
}
