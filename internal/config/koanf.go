package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodlist/config.yaml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration. A .env file in the working directory, if present,
// is loaded into the process environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyProviderDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitCommaList turns a comma-separated env value into a string slice.
func splitCommaList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

var envMappings = map[string]string{
	"http_addr":                "server.addr",
	"cors_origins":             "server.cors_origins",
	"rate_limit_requests":      "server.rate_limit_requests",
	"rate_limit_window":        "server.rate_limit_window",
	"rate_limit_disabled":      "server.rate_limit_disabled",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
	"llm_provider":             "llm.provider",
	"llm_base_url":             "llm.base_url",
	"llm_model":                "llm.model",
	"llm_temperature":          "llm.temperature",
	"llm_call_timeout":         "llm.call_timeout",
	"groq_api_key":             "llm.api_key",
	"ollama_host":              "llm.base_url",
	"spotify_api_base_url":     "spotify.base_url",
	"spotify_call_timeout":     "spotify.call_timeout",
	"spotify_max_retries":      "spotify.max_retries",
	"spotify_retry_backoff":    "spotify.retry_backoff",
	"spotify_requests_per_sec": "spotify.requests_per_second",
	"candidate_count":          "pipeline.candidate_count",
	"resolve_concurrency":      "pipeline.resolve_concurrency",
	"fallback_min_score":       "pipeline.fallback_min_score",
	"storage_driver":           "storage.driver",
	"storage_path":             "storage.path",
	"worker_count":             "worker.workers",
	"worker_queue_size":        "worker.queue_size",
}

// envTransformFunc maps known environment variables onto config keys.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, "moodlist_")
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
