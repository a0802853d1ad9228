// Package config loads the environment-derived runtime configuration and
// the JSON sources document.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cristalhq/aconfig"

	"github.com/frank-whw/infohound/internal/ai"
	"github.com/frank-whw/infohound/internal/model"
)

// Fixed defaults applied when only the legacy ANTHROPIC_API_KEY is set.
const (
	legacyAnthropicModel       = "claude-3-5-sonnet-20241022"
	legacyAnthropicMaxTokens   = 2000
	legacyAnthropicTemperature = 0.3
)

// Config is the environment-derived runtime record.
type Config struct {
	AIProvider    string  `env:"AI_PROVIDER" default:"anthropic"`
	AIAPIKey      string  `env:"AI_API_KEY"`
	AIBaseURL     string  `env:"AI_BASE_URL"`
	AIModel       string  `env:"AI_MODEL"`
	AIMaxTokens   int     `env:"AI_MAX_TOKENS" default:"2000"`
	AITemperature float64 `env:"AI_TEMPERATURE" default:"0.3"`
	AIConcurrency int     `env:"AI_CONCURRENCY" default:"3"`

	// Legacy key, honored when AI_API_KEY is absent.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	SourcesPath string `env:"SOURCES_PATH" default:"config/sources.json"`
	OutputDir   string `env:"OUTPUT_DIR" default:"dist"`
	ArchiveDir  string `env:"ARCHIVE_DIR" default:"data/archive"`
	CacheDir    string `env:"CACHE_DIR" default:"data/cache"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`

	TelegramBotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID int64  `env:"TELEGRAM_CHANNEL_ID"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		SkipFiles: true,
	})
	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

var defaultModels = map[string]string{
	"anthropic":  legacyAnthropicModel,
	"openai":     "gpt-4o-mini",
	"openrouter": "anthropic/claude-3.5-sonnet",
	"deepseek":   "deepseek-chat",
}

var defaultBaseURLs = map[string]string{
	"openrouter": "https://openrouter.ai/api/v1",
	"deepseek":   "https://api.deepseek.com/v1",
}

// AIConfig resolves the provider configuration. With no generic API key
// but a legacy Anthropic key present, an Anthropic setup with fixed
// defaults is constructed for backward compatibility.
func (c Config) AIConfig() (ai.Config, error) {
	if c.AIAPIKey == "" {
		if c.AnthropicAPIKey == "" {
			return ai.Config{}, errors.New("AI_API_KEY or ANTHROPIC_API_KEY must be set")
		}
		return ai.Config{
			Provider:    "anthropic",
			APIKey:      c.AnthropicAPIKey,
			Model:       legacyAnthropicModel,
			MaxTokens:   legacyAnthropicMaxTokens,
			Temperature: legacyAnthropicTemperature,
		}, nil
	}

	modelName := c.AIModel
	if modelName == "" {
		modelName = defaultModels[c.AIProvider]
	}
	if modelName == "" {
		return ai.Config{}, fmt.Errorf("AI_MODEL is required for provider %s", c.AIProvider)
	}

	baseURL := c.AIBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[c.AIProvider]
	}

	return ai.Config{
		Provider:    c.AIProvider,
		APIKey:      c.AIAPIKey,
		BaseURL:     baseURL,
		Model:       modelName,
		MaxTokens:   c.AIMaxTokens,
		Temperature: float32(c.AITemperature),
	}, nil
}

// Settings are the global knobs of the sources document.
type Settings struct {
	MaxArticlesPerSource int      `json:"maxArticlesPerSource"`
	MaxArticlesPerDay    int      `json:"maxArticlesPerDay"`
	RetentionDays        int      `json:"retentionDays"`
	Categories           []string `json:"categories"`
}

// SourcesFile is the JSON document listing content sources.
type SourcesFile struct {
	Sources  []model.SourceConfig `json:"sources"`
	Settings Settings             `json:"settings"`
}

// LoadSources reads and decodes the sources document at path.
func LoadSources(path string) (SourcesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourcesFile{}, fmt.Errorf("read sources config: %w", err)
	}

	var file SourcesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return SourcesFile{}, fmt.Errorf("parse sources config: %w", err)
	}

	return file, nil
}
