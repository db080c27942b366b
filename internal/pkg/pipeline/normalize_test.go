package pipeline

import (
	"testing"

	"github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/models"
)

func TestParsePriceAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"$4,900", 4900},
		{"$950", 950},
		{"€2,500", 2500},
		{"1,234,567", 1234567},
		{"From $1,200 per guest", 1200},
		{"Sold out", 0},
		{"", 0},
		{"TBD", 0},
	}

	for _, tt := range tests {
		if got := ParsePriceAmount(tt.input); got != tt.want {
			t.Errorf("ParsePriceAmount(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestVenueCurrency(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"Mexico", "MXN"},
		{"mexico", "MXN"},
		{"Canada", "CAD"},
		{"United States", "USD"},
		{"", "USD"},
	}

	for _, tt := range tests {
		if got := venueCurrency(tt.country); got != tt.want {
			t.Errorf("venueCurrency(%q) = %q, want %q", tt.country, got, tt.want)
		}
	}
}

func TestNormalize_Defaults(t *testing.T) {
	p := models.Portal{Code: "us", Name: "United States", Currency: "USD"}
	raw := models.RawMatch{
		MatchNumber: 77,
		Stage:       "Quarter-finals",
		// Knockout slot: pairing not decided yet.
	}
	offers := models.RawOffers{Lounges: []models.RawLounge{{Title: "VIP", PriceString: "$3,000"}}}

	rec, ok := Normalize(raw, offers, p, Options{CurrencyRule: config.CurrencyRulePortal})
	if !ok {
		t.Fatal("Normalize() rejected a match with a match number")
	}
	if rec.HostTeam != "TBD" || rec.OpposingTeam != "TBD" {
		t.Errorf("missing teams should default to TBD, got %q vs %q", rec.HostTeam, rec.OpposingTeam)
	}
	if rec.Venue.Name != "" || rec.Venue.Country != "" {
		t.Errorf("missing venue sub-fields should stay empty, got %+v", rec.Venue)
	}
	if len(rec.Offers) != 1 || rec.Offers[0].Amount != 3000 {
		t.Errorf("unexpected offers: %+v", rec.Offers)
	}
	if rec.Offers[0].Currency != "USD" {
		t.Errorf("portal rule should assign USD, got %q", rec.Offers[0].Currency)
	}
}

func TestNormalize_DiscardsMissingMatchNumber(t *testing.T) {
	p := models.Portal{Code: "us", Currency: "USD"}
	raw := models.RawMatch{HostTeam: "Mexico", OpposingTeam: "Canada"}

	if _, ok := Normalize(raw, models.RawOffers{}, p, Options{}); ok {
		t.Error("Normalize() must discard matches without a match number")
	}
}

func TestNormalize_VenueCurrencyRule(t *testing.T) {
	// A Mexican venue sold through the US portal: venue rule wins over the
	// portal's own currency.
	p := models.Portal{Code: "us", Name: "United States", Currency: "USD"}
	raw := models.RawMatch{
		MatchNumber: 1,
		Venue:       models.Venue{Name: "Estadio Azteca", Town: "Mexico City", Country: "Mexico"},
	}
	offers := models.RawOffers{Lounges: []models.RawLounge{{Title: "Trophy Lounge", PriceString: "$80,000"}}}

	rec, ok := Normalize(raw, offers, p, Options{CurrencyRule: config.CurrencyRuleVenue})
	if !ok {
		t.Fatal("Normalize() rejected a valid match")
	}
	if rec.Offers[0].Currency != "MXN" {
		t.Errorf("venue rule should assign MXN, got %q", rec.Offers[0].Currency)
	}
}

func TestNormalize_UnpricedLoungeKeptAsUnpriced(t *testing.T) {
	p := models.Portal{Code: "us", Currency: "USD"}
	raw := models.RawMatch{MatchNumber: 5}
	offers := models.RawOffers{Lounges: []models.RawLounge{
		{Title: "Pitchside Lounge", PriceString: "Contact us"},
		{Title: "VIP", PriceString: "$950"},
	}}

	rec, _ := Normalize(raw, offers, p, Options{CurrencyRule: config.CurrencyRulePortal})
	if len(rec.Offers) != 2 {
		t.Fatalf("expected both lounges in the offer set, got %d", len(rec.Offers))
	}
	if rec.Offers[0].Priced() {
		t.Error("lounge without a parseable price must be unpriced")
	}
	if !rec.Offers[1].Priced() {
		t.Error("lounge with a parseable price must be priced")
	}
}

func TestNormalize_CategoriesShape(t *testing.T) {
	p := models.Portal{Code: "ca", Name: "Canada", Currency: "CAD", Shape: models.ShapeCategories}
	raw := models.RawMatch{MatchNumber: 12}
	offers := models.RawOffers{Categories: []models.RawCategory{
		{
			Name:              "Champions Club",
			HasAvailableSeats: true,
			PriceCategories: []models.RawPriceEntry{
				{IsAvailable: true, Amount: 2100},
				{IsAvailable: false, Amount: 1800}, // unavailable tier must be dropped
				{IsAvailable: true, Amount: 0},     // zero amount must be dropped
			},
		},
		{
			Name:              "FIFA Pavilion",
			HasAvailableSeats: false, // fully sold out, no offers at all
			PriceCategories:   []models.RawPriceEntry{{IsAvailable: true, Amount: 900}},
		},
	}}

	rec, _ := Normalize(raw, offers, p, Options{CurrencyRule: config.CurrencyRulePortal})
	if len(rec.Offers) != 1 {
		t.Fatalf("expected exactly one offer, got %d: %+v", len(rec.Offers), rec.Offers)
	}
	o := rec.Offers[0]
	if o.Title != "Champions Club" || o.Amount != 2100 || o.Currency != "CAD" {
		t.Errorf("unexpected offer: %+v", o)
	}
}
