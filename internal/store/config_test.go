package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Mode != ModeDryRun {
		t.Errorf("expected DRY_RUN, got %s", cfg.Mode)
	}
	if cfg.Symbol != "TSLA" {
		t.Errorf("expected TSLA, got %s", cfg.Symbol)
	}
	if cfg.Indicator.Provider != "TAAPI" || cfg.Indicator.Endpoint != "https://api.taapi.io/rsi" {
		t.Errorf("unexpected indicator defaults: %+v", cfg.Indicator)
	}
	if cfg.LLM.Provider != "OPENAI" || cfg.LLM.Model != "gpt-4" {
		t.Errorf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.HTTPTimeout().Seconds() != 30 {
		t.Errorf("expected 30s timeout, got %v", cfg.HTTPTimeout())
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	p := writeConfig(t, `
mode: dry_run
symbol: aapl
indicator:
  provider: broker
  rsi_period: 10
llm:
  provider: claude
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Symbol != "AAPL" {
		t.Errorf("expected AAPL, got %s", cfg.Symbol)
	}
	if cfg.Indicator.Provider != "BROKER" || cfg.Indicator.RSIPeriod != 10 {
		t.Errorf("unexpected indicator config: %+v", cfg.Indicator)
	}
	if cfg.LLM.Provider != "CLAUDE" || !strings.HasPrefix(cfg.LLM.Model, "claude") {
		t.Errorf("unexpected llm config: %+v", cfg.LLM)
	}
}

func TestLoadConfigMalformedIsFatal(t *testing.T) {
	p := writeConfig(t, "mode: [unterminated")
	if _, err := LoadConfig(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"mode":     "mode: PAPER",
		"provider": "llm:\n  provider: GEMINI",
		"source":   "indicator:\n  provider: YAHOO",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); err == nil {
				t.Errorf("expected validation error for %q", body)
			}
		})
	}
}

func TestLiveModeRequiresAlpacaCredentials(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "")
	if _, err := LoadConfig(writeConfig(t, "mode: LIVE")); err == nil {
		t.Fatal("expected error without credentials")
	}

	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_SECRET_KEY", "secret")
	t.Setenv("ALPACA_BASE_URL", "https://api.alpaca.markets")
	cfg, err := LoadConfig(writeConfig(t, "mode: LIVE"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Credentials.AlpacaKey != "key" || cfg.Credentials.AlpacaBaseURL != "https://api.alpaca.markets" {
		t.Errorf("credentials not loaded from env: %+v", cfg.Credentials)
	}
	if cfg.Credentials.AlpacaDataURL != "https://data.alpaca.markets" {
		t.Errorf("expected default data url, got %s", cfg.Credentials.AlpacaDataURL)
	}
}
