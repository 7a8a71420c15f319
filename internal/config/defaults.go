package config

import "time"

// DefaultConfig returns the initial configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		Voice: VoiceConfig{
			TargetLangs:          []string{"en"},
			SourceLang:           "auto",
			ChunkSize:            3200,
			PaceInterval:         100 * time.Millisecond,
			Reconnect:            true,
			MaxReconnectAttempts: 3,
		},
		Translation: TranslationConfig{
			Cache: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
