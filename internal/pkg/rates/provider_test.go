package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/worldcup26/hospitality/internal/pkg/config"
)

func TestProvider_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","rates":{"USD":1,"CAD":1.36,"MXN":18.7}}`))
	}))
	defer server.Close()

	p := NewProvider(&config.RatesConfig{URL: server.URL, Base: "USD"})
	snap := p.Fetch(context.Background())

	if snap.Fallback {
		t.Fatal("Fetch() used fallback despite healthy server")
	}
	if snap.Base != "USD" {
		t.Errorf("Base = %q, want USD", snap.Base)
	}
	if got := snap.Rates["CAD"]; got != 1.36 {
		t.Errorf("Rates[CAD] = %v, want 1.36", got)
	}
}

func TestProvider_FetchFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := NewProvider(&config.RatesConfig{
		URL:      server.URL,
		Base:     "USD",
		Fallback: map[string]float64{"CAD": 1.35, "MXN": 18.0},
	})
	snap := p.Fetch(context.Background())

	if !snap.Fallback {
		t.Fatal("Fetch() should report fallback after a server error")
	}
	if got := snap.Rates["CAD"]; got != 1.35 {
		t.Errorf("fallback Rates[CAD] = %v, want 1.35", got)
	}
	if got := snap.Rates["USD"]; got != 1 {
		t.Errorf("fallback Rates[USD] = %v, want 1 (base rate is implied)", got)
	}
}

func TestProvider_FetchFallsBackOnBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	p := NewProvider(&config.RatesConfig{
		URL:      server.URL,
		Base:     "USD",
		Fallback: map[string]float64{"MXN": 18.0},
	})
	snap := p.Fetch(context.Background())

	if !snap.Fallback {
		t.Fatal("Fetch() should report fallback on a parse failure")
	}
	if got := snap.Rates["MXN"]; got != 18.0 {
		t.Errorf("fallback Rates[MXN] = %v, want 18.0", got)
	}
}
