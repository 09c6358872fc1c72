package tts

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// EngineType identifies a synthesis engine implementation.
type EngineType string

const (
	EngineTypeKokoro        EngineType = "kokoro"
	EngineTypeGoogleClassic EngineType = "googleclassic"
	EngineTypeElevenLabs    EngineType = "elevenlabs"
	EngineTypeMock          EngineType = "mock"
	EngineTypeAuto          EngineType = "auto" // pick the best available engine
)

func (e EngineType) String() string {
	return string(e)
}

// New creates a synthesis engine from the provided config.
func New(config Config) (Engine, error) {
	if config.Type == EngineTypeAuto.String() {
		config.Type = bestAvailableEngine(config).String()
		logrus.WithField("engine", config.Type).Info("Auto-selected synthesis engine")
	}

	switch config.Type {
	case EngineTypeKokoro.String():
		return NewKokoroEngine(config.Kokoro), nil

	case EngineTypeGoogleClassic.String():
		return newGoogleClassicEngine(config.Google)

	case EngineTypeElevenLabs.String():
		return newElevenLabsEngine(config.ElevenLabs)

	case EngineTypeMock.String():
		return NewMockEngine(), nil

	default:
		return nil, fmt.Errorf("unsupported synthesis engine type: %s", config.Type)
	}
}

// bestAvailableEngine prefers the local Kokoro server, then whichever
// cloud engine has credentials, then the mock.
func bestAvailableEngine(config Config) EngineType {
	if kokoroReachable(config.Kokoro.URL) {
		return EngineTypeKokoro
	}
	if hasGoogleCredentials() {
		return EngineTypeGoogleClassic
	}
	if os.Getenv("ELEVENLABS_API_KEY") != "" {
		return EngineTypeElevenLabs
	}
	return EngineTypeMock
}

// kokoroReachable probes the Kokoro server health endpoint.
func kokoroReachable(baseURL string) bool {
	if baseURL == "" {
		return false
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 300
}

func hasGoogleCredentials() bool {
	_, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS")
	return ok
}
