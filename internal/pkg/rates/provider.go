package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/worldcup26/hospitality/internal/pkg/config"
)

// Snapshot is one run's view of the exchange rates: currency code → units of
// that currency per one unit of the base currency. Fetched once per run and
// reused for every conversion in that run.
type Snapshot struct {
	Base     string             `json:"base"`
	Rates    map[string]float64 `json:"rates"`
	Fallback bool               `json:"fallback"` // true when the hardcoded rates were used
}

// Provider fetches the current rate snapshot from a public rates API.
type Provider struct {
	url        string
	base       string
	fallback   map[string]float64
	httpClient *http.Client
}

func NewProvider(cfg *config.RatesConfig) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Provider{
		url:        cfg.URL,
		base:       cfg.Base,
		fallback:   cfg.Fallback,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the current rates with a single attempt. A network or parse
// failure is not fatal: the configured fallback rates are returned instead so
// the run can continue with approximate conversions.
func (p *Provider) Fetch(ctx context.Context) Snapshot {
	snap, err := p.fetch(ctx)
	if err != nil {
		slog.Warn("Rates fetch failed, using fallback rates", "url", p.url, "error", err)
		return p.fallbackSnapshot()
	}
	slog.Info("Exchange rates fetched", "base", snap.Base, "currencies", len(snap.Rates))
	return snap
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (p *Provider) fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Snapshot{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(b))
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Snapshot{}, fmt.Errorf("decode rates response: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return Snapshot{}, fmt.Errorf("rates response contains no rates")
	}

	base := parsed.Base
	if base == "" {
		base = p.base
	}
	return Snapshot{Base: base, Rates: parsed.Rates}, nil
}

func (p *Provider) fallbackSnapshot() Snapshot {
	rates := make(map[string]float64, len(p.fallback)+1)
	for code, rate := range p.fallback {
		rates[code] = rate
	}
	rates[p.base] = 1
	return Snapshot{Base: p.base, Rates: rates, Fallback: true}
}
