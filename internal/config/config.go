// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub    GitHubConfig
	Anthropic AnthropicConfig
	Telegram  TelegramConfig
	Store     StoreConfig
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Domain string
}

// AnthropicConfig holds AI enrichment configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// TelegramConfig holds optional notification delivery configuration.
type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

// StoreConfig holds local tracking store configuration.
type StoreConfig struct {
	Path string
}

// LoadConfig initializes and loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Map specific environment variables
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "ANTHROPIC_MODEL")
	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
	v.BindEnv("store.path", "GITSCOUT_DB")

	config := &Config{
		GitHub: GitHubConfig{
			Token:  v.GetString("github.token"),
			Domain: v.GetString("github.domain"),
		},
		Anthropic: AnthropicConfig{
			APIKey: v.GetString("anthropic.api_key"),
			Model:  v.GetString("anthropic.model"),
		},
		Telegram: TelegramConfig{
			BotToken: v.GetString("telegram.bot_token"),
			ChatID:   v.GetInt64("telegram.chat_id"),
		},
		Store: StoreConfig{
			Path: v.GetString("store.path"),
		},
	}

	if config.GitHub.Domain == "" {
		config.GitHub.Domain = "github.com"
	}
	if config.Anthropic.Model == "" {
		config.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if config.Store.Path == "" {
		config.Store.Path = defaultStorePath()
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// defaultStorePath places the tracking database under the user config dir.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gitscout.db"
	}
	return filepath.Join(dir, "gitscout", "gitscout.db")
}

// validateConfig ensures that all required configuration values are provided.
func validateConfig(config *Config) error {
	var missingVars []string

	if config.GitHub.Token == "" {
		missingVars = append(missingVars, "GITHUB_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}

// ValidateAnthropicConfig validates enrichment-specific configuration.
// Only commands that request AI insight need it.
func ValidateAnthropicConfig(config *Config) error {
	if config.Anthropic.APIKey == "" {
		return fmt.Errorf("missing required environment variables: [ANTHROPIC_API_KEY]")
	}
	return nil
}

// ValidateTelegramConfig validates notification delivery configuration.
func ValidateTelegramConfig(config *Config) error {
	var missingVars []string

	if config.Telegram.BotToken == "" {
		missingVars = append(missingVars, "TELEGRAM_BOT_TOKEN")
	}
	if config.Telegram.ChatID == 0 {
		missingVars = append(missingVars, "TELEGRAM_CHAT_ID")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
