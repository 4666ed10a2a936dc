package config

import (
    "os"
    "path/filepath"
    "testing"
)

const minimalYAML = `
environment: test
providers:
  fmp:
    api_key: demo
billing:
  plans:
    - name: Casual
      price_id: price_casual
      tier: casual
`

func writeTemp(t *testing.T, content string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
        t.Fatalf("write temp config: %v", err)
    }
    return path
}

func TestLoadDefaults(t *testing.T) {
    cfg, err := Load(writeTemp(t, minimalYAML))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Server.Port != 8080 {
        t.Fatalf("expected default port, got %d", cfg.Server.Port)
    }
    if cfg.Cache.Backend != "memory" {
        t.Fatalf("expected memory cache default, got %s", cfg.Cache.Backend)
    }
    if cfg.Providers.Finnhub.BaseURL == "" {
        t.Fatalf("expected finnhub base url default")
    }
}

func TestLoadRejectsUnknownTier(t *testing.T) {
    bad := `
environment: test
billing:
  plans:
    - name: Pro
      price_id: price_pro
      tier: platinum
`
    if _, err := Load(writeTemp(t, bad)); err == nil {
        t.Fatalf("expected tier validation error")
    }
}

func TestLoadWithEnvOverridesKeys(t *testing.T) {
    t.Setenv("FMP_API_KEY", "live-key")
    t.Setenv("FINNHUB_API_KEY", "fallback-key")
    cfg, err := LoadWithEnv(writeTemp(t, minimalYAML))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Providers.FMP.APIKey != "live-key" {
        t.Fatalf("fmp key not overridden: %s", cfg.Providers.FMP.APIKey)
    }
    if cfg.Providers.Finnhub.APIKey != "fallback-key" {
        t.Fatalf("finnhub key not overridden")
    }
}

func TestPlanByPriceID(t *testing.T) {
    cfg, err := Load(writeTemp(t, minimalYAML))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if _, ok := cfg.PlanByPriceID("price_casual"); !ok {
        t.Fatalf("expected plan lookup to succeed")
    }
    if _, ok := cfg.PlanByPriceID("nope"); ok {
        t.Fatalf("expected plan lookup to fail")
    }
}
