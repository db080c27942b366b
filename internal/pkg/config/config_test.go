package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
portals:
  - code: us
    name: United States
    currency: USD
    base_url: https://example.test
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scraper.PriceMode != PriceModeAll {
		t.Errorf("default price_mode = %q, want %q", cfg.Scraper.PriceMode, PriceModeAll)
	}
	if cfg.Scraper.CurrencyRule != CurrencyRulePortal {
		t.Errorf("default currency_rule = %q, want %q", cfg.Scraper.CurrencyRule, CurrencyRulePortal)
	}
	if cfg.Scraper.OfferDelay != 200*time.Millisecond {
		t.Errorf("default offer_delay = %v, want 200ms", cfg.Scraper.OfferDelay)
	}
	if cfg.Rates.Base != "USD" {
		t.Errorf("default rates.base = %q, want USD", cfg.Rates.Base)
	}
	if cfg.Portals[0].Shape != "lounges" {
		t.Errorf("default portal shape = %q, want lounges", cfg.Portals[0].Shape)
	}
}

func TestLoad_RejectsUnknownPriceMode(t *testing.T) {
	content := minimalConfig + `
scraper:
  price_mode: cheapest
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("Load() should reject an unknown price_mode")
	}
}

func TestLoad_RejectsUnknownCurrencyRule(t *testing.T) {
	content := minimalConfig + `
scraper:
  currency_rule: guess
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("Load() should reject an unknown currency_rule")
	}
}

func TestLoad_RequiresPortals(t *testing.T) {
	if _, err := Load(writeConfig(t, "scraper:\n  price_mode: all\n")); err == nil {
		t.Error("Load() should require at least one portal")
	}
}

func TestPortalList_PreservesOrder(t *testing.T) {
	content := `
portals:
  - {code: us, name: United States, currency: USD, base_url: https://example.test}
  - {code: ca, name: Canada, currency: CAD, base_url: https://example.test}
  - {code: mx, name: Mexico, currency: MXN, base_url: https://example.test}
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	portals := cfg.PortalList()
	want := []string{"us", "ca", "mx"}
	for i, code := range want {
		if portals[i].Code != code {
			t.Errorf("portal[%d] = %q, want %q (order decides reconciliation tie-breaks)", i, portals[i].Code, code)
		}
	}
}
