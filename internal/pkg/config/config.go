package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/worldcup26/hospitality/internal/pkg/models"
)

type Config struct {
	Scraper  ScraperConfig  `yaml:"scraper"`
	Portals  []PortalConfig `yaml:"portals"`
	Rates    RatesConfig    `yaml:"rates"`
	Postgres PostgresConfig `yaml:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Price modes: which offers of a match are exported.
const (
	PriceModeAll    = "all"    // every priced offer becomes an exported row
	PriceModeLowest = "lowest" // only the cheapest available offer per match
)

// Currency rules: how an offer's currency is attributed. Fixed per run.
const (
	CurrencyRulePortal = "portal" // currency of the portal that served the data
	CurrencyRuleVenue  = "venue"  // currency implied by the venue's country
)

type ScraperConfig struct {
	PriceMode      string        `yaml:"price_mode"`    // "all" or "lowest"
	CurrencyRule   string        `yaml:"currency_rule"` // "portal" or "venue"
	Stages         []string      `yaml:"stages"`        // empty = all stages
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	OfferDelay     time.Duration `yaml:"offer_delay"` // pause between per-match price fetches
	ExportDir      string        `yaml:"export_dir"`
}

type PortalConfig struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
	BaseURL  string `yaml:"base_url"`
	Shape    string `yaml:"shape"` // "lounges" or "categories"
}

type RatesConfig struct {
	URL      string             `yaml:"url"`
	Base     string             `yaml:"base"`
	Fallback map[string]float64 `yaml:"fallback"`
	Timeout  time.Duration      `yaml:"timeout"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // empty disables the price-history store
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"` // empty disables notifications
	ChatID   int64  `yaml:"chat_id"`
}

type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"` // empty disables the sheets sync
	Range         string `yaml:"range"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

const (
	defaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultRequestTimeout = 60 * time.Second
	defaultOfferDelay     = 200 * time.Millisecond
	defaultExportDir      = "data"
	defaultRatesURL       = "https://api.exchangerate-api.com/v4/latest/USD"
	defaultRatesTimeout   = 15 * time.Second
	defaultSheetsRange    = "Sheet1"
)

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Scraper.PriceMode == "" {
		c.Scraper.PriceMode = PriceModeAll
	}
	if c.Scraper.CurrencyRule == "" {
		c.Scraper.CurrencyRule = CurrencyRulePortal
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = defaultUserAgent
	}
	if c.Scraper.RequestTimeout <= 0 {
		c.Scraper.RequestTimeout = defaultRequestTimeout
	}
	if c.Scraper.OfferDelay <= 0 {
		c.Scraper.OfferDelay = defaultOfferDelay
	}
	if c.Scraper.ExportDir == "" {
		c.Scraper.ExportDir = defaultExportDir
	}
	if c.Rates.URL == "" {
		c.Rates.URL = defaultRatesURL
	}
	if c.Rates.Base == "" {
		c.Rates.Base = "USD"
	}
	if c.Rates.Timeout <= 0 {
		c.Rates.Timeout = defaultRatesTimeout
	}
	if c.Sheets.Range == "" {
		c.Sheets.Range = defaultSheetsRange
	}
	for i := range c.Portals {
		if c.Portals[i].Shape == "" {
			c.Portals[i].Shape = string(models.ShapeLounges)
		}
	}
}

func (c *Config) validate() error {
	switch c.Scraper.PriceMode {
	case PriceModeAll, PriceModeLowest:
	default:
		return fmt.Errorf("scraper.price_mode must be %q or %q, got %q", PriceModeAll, PriceModeLowest, c.Scraper.PriceMode)
	}
	switch c.Scraper.CurrencyRule {
	case CurrencyRulePortal, CurrencyRuleVenue:
	default:
		return fmt.Errorf("scraper.currency_rule must be %q or %q, got %q", CurrencyRulePortal, CurrencyRuleVenue, c.Scraper.CurrencyRule)
	}
	if len(c.Portals) == 0 {
		return fmt.Errorf("at least one portal must be configured")
	}
	for _, p := range c.Portals {
		if p.Code == "" || p.Currency == "" || p.BaseURL == "" {
			return fmt.Errorf("portal %q: code, currency and base_url are required", p.Code)
		}
		switch models.OfferShape(p.Shape) {
		case models.ShapeLounges, models.ShapeCategories:
		default:
			return fmt.Errorf("portal %q: unknown shape %q", p.Code, p.Shape)
		}
	}
	return nil
}

// Portal converts one portal entry to the domain model.
func (p PortalConfig) Portal() models.Portal {
	return models.Portal{
		Code:     p.Code,
		Name:     p.Name,
		Currency: p.Currency,
		BaseURL:  p.BaseURL,
		Shape:    models.OfferShape(p.Shape),
	}
}

// PortalList converts all configured portals, preserving config order. The
// order matters: reconciliation tie-breaks keep the first-seen portal.
func (c *Config) PortalList() []models.Portal {
	out := make([]models.Portal, 0, len(c.Portals))
	for _, p := range c.Portals {
		out = append(out, p.Portal())
	}
	return out
}
