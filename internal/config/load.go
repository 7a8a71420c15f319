package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	transliveDir := filepath.Join(configDir, "translive")
	if err := os.MkdirAll(transliveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(transliveDir, "config.toml"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// First run: write the commented default file, then load it.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Info().Str("path", configPath).Msg("config: no config file found, creating with defaults")
		if err := SaveDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	return LoadFile(configPath)
}

func LoadFile(configPath string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()

	log.Debug().Str("path", configPath).Msg("config: configuration loaded")
	return &config, nil
}

// ResolveAPIKey returns the credential from the file or, when empty, from the
// DEEPL_AUTH_KEY environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.Auth.APIKey != "" {
		return c.Auth.APIKey
	}
	return os.Getenv("DEEPL_AUTH_KEY")
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if len(c.Voice.TargetLangs) == 0 {
		c.Voice.TargetLangs = def.Voice.TargetLangs
	}
	if c.Voice.SourceLang == "" {
		c.Voice.SourceLang = def.Voice.SourceLang
	}
	if c.Voice.ChunkSize == 0 {
		c.Voice.ChunkSize = def.Voice.ChunkSize
	}
	if c.Voice.PaceInterval == 0 {
		c.Voice.PaceInterval = def.Voice.PaceInterval
	}
	if c.Voice.MaxReconnectAttempts == 0 {
		c.Voice.MaxReconnectAttempts = def.Voice.MaxReconnectAttempts
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

// Save writes the configuration back to the config file.
func Save(c *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func SaveDefaultConfig(configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	configContent := `# Translive Configuration
# This file is automatically generated with defaults.
# Edit values as needed - changes are picked up without restarting.

# API Credential
[auth]
  api_key = ""                      # DeepL API key (or set DEEPL_AUTH_KEY environment variable)
                                    # Keys ending in ":fx" use the free-tier endpoint automatically

# Real-time Voice Translation
[voice]
  target_languages = ["en"]         # Languages to translate speech into (e.g. ["de", "fr"])
  source_language = "auto"          # Spoken language ("auto" = detect from audio)
  formality = ""                    # "more", "less" or empty for default tone
  glossary_id = ""                  # Glossary to apply (see: translive glossary list)
  chunk_size = 3200                 # Audio bytes per upload frame (~100ms of 16kHz mono PCM)
  pace_interval = "100ms"           # Delay between chunk uploads
  reconnect = true                  # Resume the session after an unexpected disconnect
  max_reconnect_attempts = 3        # Give up after this many resumes

# Text Translation
[translation]
  formality = ""                    # "more", "less" or empty for default tone
  cache = true                      # Reuse previous results from the local cache

# Logging
[logging]
  level = "info"                    # "debug", "info", "warn", "error"
`

	if _, err := file.WriteString(configContent); err != nil {
		return fmt.Errorf("failed to write config content: %w", err)
	}

	return nil
}
