package config

import "time"

type Config struct {
	Auth        AuthConfig        `toml:"auth"`
	Voice       VoiceConfig       `toml:"voice"`
	Translation TranslationConfig `toml:"translation"`
	Logging     LoggingConfig     `toml:"logging"`
}

// AuthConfig holds the API credential. The DEEPL_AUTH_KEY environment
// variable takes over when the file leaves it empty.
type AuthConfig struct {
	APIKey string `toml:"api_key"`
}

// VoiceConfig configures the realtime voice-translation session.
type VoiceConfig struct {
	TargetLangs          []string      `toml:"target_languages"`
	SourceLang           string        `toml:"source_language"` // empty or "auto" for detection
	Formality            string        `toml:"formality"`
	GlossaryID           string        `toml:"glossary_id"`
	ChunkSize            int           `toml:"chunk_size"`
	PaceInterval         time.Duration `toml:"pace_interval"`
	Reconnect            bool          `toml:"reconnect"`
	MaxReconnectAttempts int           `toml:"max_reconnect_attempts"`
}

// TranslationConfig configures plain text translation.
type TranslationConfig struct {
	Formality string `toml:"formality"`
	Cache     bool   `toml:"cache"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}
