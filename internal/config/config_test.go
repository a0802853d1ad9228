package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frank-whw/infohound/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AI_PROVIDER", "AI_API_KEY", "AI_BASE_URL", "AI_MODEL",
		"AI_MAX_TOKENS", "AI_TEMPERATURE", "AI_CONCURRENCY",
		"ANTHROPIC_API_KEY", "SOURCES_PATH", "OUTPUT_DIR",
		"ARCHIVE_DIR", "CACHE_DIR", "LOG_LEVEL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHANNEL_ID",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.AIProvider != "anthropic" {
		t.Errorf("AIProvider = %q, want anthropic", cfg.AIProvider)
	}
	if cfg.AIMaxTokens != 2000 {
		t.Errorf("AIMaxTokens = %d, want 2000", cfg.AIMaxTokens)
	}
	if cfg.AITemperature != 0.3 {
		t.Errorf("AITemperature = %v, want 0.3", cfg.AITemperature)
	}
	if cfg.AIConcurrency != 3 {
		t.Errorf("AIConcurrency = %d, want 3", cfg.AIConcurrency)
	}
	if cfg.SourcesPath != "config/sources.json" {
		t.Errorf("SourcesPath = %q", cfg.SourcesPath)
	}
	if cfg.OutputDir != "dist" || cfg.ArchiveDir != "data/archive" || cfg.CacheDir != "data/cache" {
		t.Errorf("dirs = %q %q %q", cfg.OutputDir, cfg.ArchiveDir, cfg.CacheDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("AI_CONCURRENCY", "5")
	t.Setenv("OUTPUT_DIR", "/tmp/out")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.AIProvider != "openai" || cfg.AIAPIKey != "sk-test" {
		t.Errorf("provider/key = %q/%q", cfg.AIProvider, cfg.AIAPIKey)
	}
	if cfg.AIConcurrency != 5 {
		t.Errorf("AIConcurrency = %d, want 5", cfg.AIConcurrency)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestAIConfigMissingKeys(t *testing.T) {
	_, err := Config{}.AIConfig()
	if err == nil {
		t.Fatal("want error when no API key is set")
	}
	if !strings.Contains(err.Error(), "AI_API_KEY") {
		t.Errorf("error = %v", err)
	}
}

func TestAIConfigLegacyAnthropicFallback(t *testing.T) {
	cfg := Config{
		AIProvider:      "openai",
		AnthropicAPIKey: "sk-ant-legacy",
		AIMaxTokens:     4000,
		AITemperature:   0.9,
	}

	ac, err := cfg.AIConfig()
	if err != nil {
		t.Fatal(err)
	}

	// The legacy path pins its own provider, model and sampling knobs.
	if ac.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", ac.Provider)
	}
	if ac.APIKey != "sk-ant-legacy" {
		t.Errorf("APIKey = %q", ac.APIKey)
	}
	if ac.Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("Model = %q", ac.Model)
	}
	if ac.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", ac.MaxTokens)
	}
	if ac.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want 0.3", ac.Temperature)
	}
}

func TestAIConfigGenericKeyWinsOverLegacy(t *testing.T) {
	cfg := Config{
		AIProvider:      "openai",
		AIAPIKey:        "sk-generic",
		AnthropicAPIKey: "sk-ant-legacy",
		AIMaxTokens:     4000,
		AITemperature:   0.9,
	}

	ac, err := cfg.AIConfig()
	if err != nil {
		t.Fatal(err)
	}

	if ac.Provider != "openai" || ac.APIKey != "sk-generic" {
		t.Errorf("provider/key = %q/%q", ac.Provider, ac.APIKey)
	}
	if ac.MaxTokens != 4000 {
		t.Errorf("MaxTokens = %d, want 4000", ac.MaxTokens)
	}
}

func TestAIConfigDefaultModels(t *testing.T) {
	cases := []struct {
		provider  string
		wantModel string
	}{
		{"anthropic", "claude-3-5-sonnet-20241022"},
		{"openai", "gpt-4o-mini"},
		{"openrouter", "anthropic/claude-3.5-sonnet"},
		{"deepseek", "deepseek-chat"},
	}

	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			ac, err := Config{AIProvider: tc.provider, AIAPIKey: "k"}.AIConfig()
			if err != nil {
				t.Fatal(err)
			}
			if ac.Model != tc.wantModel {
				t.Errorf("Model = %q, want %q", ac.Model, tc.wantModel)
			}
		})
	}
}

func TestAIConfigDefaultBaseURLs(t *testing.T) {
	ac, err := Config{AIProvider: "openrouter", AIAPIKey: "k"}.AIConfig()
	if err != nil {
		t.Fatal(err)
	}
	if ac.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("BaseURL = %q", ac.BaseURL)
	}

	ac, err = Config{AIProvider: "deepseek", AIAPIKey: "k"}.AIConfig()
	if err != nil {
		t.Fatal(err)
	}
	if ac.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("BaseURL = %q", ac.BaseURL)
	}
}

func TestAIConfigExplicitOverrides(t *testing.T) {
	ac, err := Config{
		AIProvider: "custom",
		AIAPIKey:   "k",
		AIModel:    "my-model",
		AIBaseURL:  "http://localhost:8080/v1",
	}.AIConfig()
	if err != nil {
		t.Fatal(err)
	}

	if ac.Model != "my-model" || ac.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("model/base = %q/%q", ac.Model, ac.BaseURL)
	}
}

func TestAIConfigUnknownProviderNeedsModel(t *testing.T) {
	_, err := Config{AIProvider: "custom", AIAPIKey: "k"}.AIConfig()
	if err == nil {
		t.Fatal("want error for custom provider without AI_MODEL")
	}
	if !strings.Contains(err.Error(), "AI_MODEL") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.json")
	doc := `{
  "sources": [
    {
      "id": "hackernews",
      "name": "Hacker News",
      "type": "api",
      "url": "https://hacker-news.firebaseio.com/v0",
      "category": "tech-deep",
      "weight": 1.0,
      "maxPerDay": 10,
      "filter": {"minScore": 100, "excludeKeywords": ["crypto"]}
    },
    {
      "id": "blog",
      "name": "Some Blog",
      "type": "rss",
      "url": "https://example.com/feed.xml",
      "category": "ai",
      "weight": 0.8,
      "maxPerDay": 5
    }
  ],
  "settings": {
    "maxArticlesPerSource": 10,
    "maxArticlesPerDay": 30,
    "retentionDays": 30,
    "categories": ["tech-deep", "ai"]
  }
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	file, err := LoadSources(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(file.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(file.Sources))
	}

	hn := file.Sources[0]
	if hn.ID != "hackernews" || hn.Type != model.SourceTypeAPI || hn.Category != model.CategoryTechDeep {
		t.Errorf("hn = %+v", hn)
	}
	if hn.Filter == nil || hn.Filter.MinScore != 100 || len(hn.Filter.ExcludeKeywords) != 1 {
		t.Errorf("hn.Filter = %+v", hn.Filter)
	}

	blog := file.Sources[1]
	if blog.Type != model.SourceTypeRSS || blog.MaxPerDay != 5 || blog.Weight != 0.8 {
		t.Errorf("blog = %+v", blog)
	}
	if blog.Filter != nil {
		t.Errorf("blog.Filter = %+v, want nil", blog.Filter)
	}

	if file.Settings.MaxArticlesPerDay != 30 || file.Settings.RetentionDays != 30 {
		t.Errorf("settings = %+v", file.Settings)
	}
}

func TestLoadSourcesMissingFile(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestLoadSourcesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSources(path)
	if err == nil {
		t.Fatal("want error for malformed JSON")
	}
}
