package config

import (
	"fmt"

	"github.com/evalieri/translive/internal/language"
)

var validFormality = map[string]bool{
	"": true, "default": true,
	"more": true, "less": true,
	"prefer_more": true, "prefer_less": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

func (c *Config) Validate() error {
	if c.ResolveAPIKey() == "" {
		return fmt.Errorf("DeepL API key required: not found in config (auth.api_key) or environment variable (DEEPL_AUTH_KEY)")
	}

	if len(c.Voice.TargetLangs) == 0 {
		return fmt.Errorf("invalid voice.target_languages: empty (must have at least one language)")
	}
	for _, lang := range c.Voice.TargetLangs {
		if lang == "" || lang == "auto" || !language.IsValidCode(lang) {
			return fmt.Errorf("invalid voice.target_languages: unknown language %q (use codes like 'en', 'de', 'fr')", lang)
		}
	}
	if !language.IsValidCode(c.Voice.SourceLang) {
		return fmt.Errorf("invalid voice.source_language: %s (use \"auto\" for detection or codes like 'en', 'de', 'fr')", c.Voice.SourceLang)
	}
	if !validFormality[c.Voice.Formality] {
		return fmt.Errorf("invalid voice.formality: %s (must be more, less, prefer_more, prefer_less, or empty)", c.Voice.Formality)
	}
	if c.Voice.ChunkSize <= 0 {
		return fmt.Errorf("invalid voice.chunk_size: %d", c.Voice.ChunkSize)
	}
	if c.Voice.PaceInterval < 0 {
		return fmt.Errorf("invalid voice.pace_interval: %v", c.Voice.PaceInterval)
	}
	if c.Voice.MaxReconnectAttempts < 0 {
		return fmt.Errorf("invalid voice.max_reconnect_attempts: %d", c.Voice.MaxReconnectAttempts)
	}

	if !validFormality[c.Translation.Formality] {
		return fmt.Errorf("invalid translation.formality: %s (must be more, less, prefer_more, prefer_less, or empty)", c.Translation.Formality)
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	return nil
}
