package infra

import "testing"

func TestLoadConfigGeminiKeyPrecedence(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GEMINI_API_KEY", "primary-key")
	t.Setenv("GOOGLE_API_KEY", "secondary-key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "primary-key" {
		t.Fatalf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "primary-key")
	}
}

func TestLoadConfigGeminiKeyFallsBackToGoogleKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "secondary-key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "secondary-key" {
		t.Fatalf("GeminiAPIKey = %q, want %q", cfg.GeminiAPIKey, "secondary-key")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("AI_PROVIDER", "oracle")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown AI_PROVIDER")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("DEFAULT_LOCALE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.AIProvider != "gemini" {
		t.Fatalf("AIProvider = %q, want %q", cfg.AIProvider, "gemini")
	}
	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Fatalf("GeminiModel = %q, want %q", cfg.GeminiModel, "gemini-1.5-flash")
	}
	if cfg.DefaultLocale != "en" {
		t.Fatalf("DefaultLocale = %q, want %q", cfg.DefaultLocale, "en")
	}
}
