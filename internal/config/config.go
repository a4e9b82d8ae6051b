package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration
type Config struct {
	General struct {
		DefaultAI         string `koanf:"default_ai"`
		RequestTimeoutSec int    `koanf:"request_timeout_sec"`
		GenerateTimeoutSec int   `koanf:"generate_timeout_sec"`
	} `koanf:"general"`

	AI      map[string]map[string]interface{} `koanf:"ai"`
	Tracker map[string]map[string]interface{} `koanf:"tracker"`

	Context struct {
		File     string `koanf:"file"`
		MaxBytes int    `koanf:"max_bytes"`
	} `koanf:"context"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"general.default_ai":           "gemini",
		"general.request_timeout_sec":  30,
		"general.generate_timeout_sec": 90,
		"context.file":                 "README.md",
		"context.max_bytes":            2048,
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./issuepilot.toml", "$HOME/.issuepilot.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix ISSUEPILOT_
	k.Load(env.Provider("ISSUEPILOT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(s), "_", ".", -1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# issuepilot Configuration

[general]
default_ai = "gemini"
request_timeout_sec = 30
generate_timeout_sec = 90

[ai.gemini]
api_key = "your-gemini-api-key"
model = "gemini-2.5-flash"
temperature = 0.2

[ai.openai]
api_key = "your-openai-api-key"
model = "gpt-4o-mini"
temperature = 0.2

[tracker.github]
token = "your-github-token"
owner = "your-org"
repo = "your-repo"

[context]
file = "README.md"
max_bytes = 2048
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.General.DefaultAI == "" {
		return fmt.Errorf("default AI provider is required")
	}

	aiConfig, ok := config.AI[config.General.DefaultAI]
	if !ok {
		return fmt.Errorf("configuration for AI provider %s not found", config.General.DefaultAI)
	}

	switch config.General.DefaultAI {
	case "gemini", "openai", "claude":
		if _, ok := aiConfig["api_key"]; !ok {
			return fmt.Errorf("%s api_key is required", config.General.DefaultAI)
		}
	}

	trackerConfig, ok := config.Tracker["github"]
	if !ok {
		return fmt.Errorf("configuration for tracker github not found")
	}
	for _, key := range []string{"token", "owner", "repo"} {
		if _, ok := trackerConfig[key]; !ok {
			return fmt.Errorf("github %s is required", key)
		}
	}

	return nil
}
