package pipeline

import (
	"testing"

	"github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/models"
)

func TestSelectOffers_LowestIgnoresUnavailable(t *testing.T) {
	offers := []models.Offer{
		{Title: "Trophy Lounge", Available: true, Amount: 300},
		{Title: "Clearance", Available: false, Amount: 50},
		{Title: "VIP", Available: true, Amount: 120},
	}

	got := SelectOffers(offers, config.PriceModeLowest)
	if len(got) != 1 {
		t.Fatalf("expected one representative offer, got %d", len(got))
	}
	if got[0].Amount != 120 {
		t.Errorf("lowest available = %v, want 120 (the unavailable 50 must be ignored)", got[0].Amount)
	}
}

func TestSelectOffers_LowestTieKeepsFirstEncountered(t *testing.T) {
	offers := []models.Offer{
		{Title: "First", Available: true, Amount: 200},
		{Title: "Second", Available: true, Amount: 200},
	}

	got := SelectOffers(offers, config.PriceModeLowest)
	if len(got) != 1 || got[0].Title != "First" {
		t.Errorf("tie must keep the first offer in iteration order, got %+v", got)
	}
}

func TestSelectOffers_LowestNoQualifyingOffer(t *testing.T) {
	tests := []struct {
		name   string
		offers []models.Offer
	}{
		{"empty set", nil},
		{"all unavailable", []models.Offer{{Available: false, Amount: 100}}},
		{"all unpriced", []models.Offer{{Available: true, Amount: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectOffers(tt.offers, config.PriceModeLowest); got != nil {
				t.Errorf("expected no representative price, got %+v", got)
			}
		})
	}
}

func TestSelectOffers_AllModePassesPricedThrough(t *testing.T) {
	offers := []models.Offer{
		{Title: "Pitchside Lounge", Available: true, Amount: 4900},
		{Title: "Unpriced", Available: true, Amount: 0},
		{Title: "VIP", Available: true, Amount: 950},
	}

	got := SelectOffers(offers, config.PriceModeAll)
	if len(got) != 2 {
		t.Fatalf("expected 2 priced offers, got %d", len(got))
	}
	if got[0].Title != "Pitchside Lounge" || got[1].Title != "VIP" {
		t.Errorf("all-offers mode must preserve iteration order, got %+v", got)
	}
}
