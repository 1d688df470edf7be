package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateSpotify(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateStorage()
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case "groq":
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			return errors.New("GROQ_API_KEY is required when llm.provider is groq")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown llm.provider %q (want groq or ollama)", c.LLM.Provider)
	}
	if c.LLM.CallTimeout <= 0 {
		return errors.New("llm.call_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSpotify() error {
	if c.Spotify.BaseURL == "" {
		return errors.New("spotify.base_url is required")
	}
	if c.Spotify.CallTimeout <= 0 {
		return errors.New("spotify.call_timeout must be positive")
	}
	if c.Spotify.RequestsPerSecond <= 0 {
		return errors.New("spotify.requests_per_second must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.CandidateCount < 1 {
		return errors.New("pipeline.candidate_count must be at least 1")
	}
	if c.Pipeline.ResolveConcurrency < 1 {
		return errors.New("pipeline.resolve_concurrency must be at least 1")
	}
	if c.Pipeline.FallbackMinScore < 0 || c.Pipeline.FallbackMinScore > 1 {
		return errors.New("pipeline.fallback_min_score must be within [0, 1]")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	case "none":
	default:
		return fmt.Errorf("unknown storage.driver %q (want sqlite or none)", c.Storage.Driver)
	}
	return nil
}
