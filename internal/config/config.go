// Package config loads moodlist configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import "time"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	LLM      LLMConfig      `koanf:"llm"`
	Spotify  SpotifyConfig  `koanf:"spotify"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Storage  StorageConfig  `koanf:"storage"`
	Worker   WorkerConfig   `koanf:"worker"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type LLMConfig struct {
	// Provider is groq or ollama.
	Provider    string        `koanf:"provider"`
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	CallTimeout time.Duration `koanf:"call_timeout"`

	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerOpenTimeout      time.Duration `koanf:"breaker_open_timeout"`
}

type SpotifyConfig struct {
	BaseURL           string        `koanf:"base_url"`
	CallTimeout       time.Duration `koanf:"call_timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBackoff      time.Duration `koanf:"retry_backoff"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

type PipelineConfig struct {
	CandidateCount     int     `koanf:"candidate_count"`
	ResolveConcurrency int     `koanf:"resolve_concurrency"`
	FallbackMinScore   float64 `koanf:"fallback_min_score"`
}

type StorageConfig struct {
	// Driver is sqlite or none.
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
}

type WorkerConfig struct {
	Workers   int `koanf:"workers"`
	QueueSize int `koanf:"queue_size"`
}

const (
	defaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	defaultGroqModel     = "llama3-70b-8192"
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3"
)

// applyProviderDefaults swaps the groq endpoint defaults for local ones when
// ollama is selected and neither was overridden.
func (c *Config) applyProviderDefaults() {
	if c.LLM.Provider != "ollama" {
		return
	}
	if c.LLM.BaseURL == defaultGroqBaseURL {
		c.LLM.BaseURL = defaultOllamaBaseURL
	}
	if c.LLM.Model == defaultGroqModel {
		c.LLM.Model = defaultOllamaModel
	}
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":5000",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"http://127.0.0.1:5173"},
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			Provider:                "groq",
			BaseURL:                 defaultGroqBaseURL,
			Model:                   defaultGroqModel,
			Temperature:             0.4,
			CallTimeout:             30 * time.Second,
			BreakerFailureThreshold: 5,
			BreakerOpenTimeout:      30 * time.Second,
		},
		Spotify: SpotifyConfig{
			BaseURL:           "https://api.spotify.com/v1",
			CallTimeout:       10 * time.Second,
			MaxRetries:        2,
			RetryBackoff:      500 * time.Millisecond,
			RequestsPerSecond: 10,
			Burst:             10,
		},
		Pipeline: PipelineConfig{
			CandidateCount:     15,
			ResolveConcurrency: 4,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "moodlist.db",
		},
		Worker: WorkerConfig{
			Workers:   2,
			QueueSize: 100,
		},
	}
}
