package sheets

import (
	"sort"
	"strings"
	"time"

	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// loungeTiers are the known hospitality product tiers, one sheet column each.
// Key is the distinctive word matched against offer titles, so portal-side
// naming variations still land in the right column.
var loungeTiers = []struct {
	Label string
	Key   string
}{
	{"Pitchside Lounge", "pitchside"},
	{"VIP", "vip"},
	{"Trophy Lounge", "trophy"},
	{"Champions Club", "champions"},
	{"FIFA Pavilion", "pavilion"},
}

// BuildGrid flattens the record set into the spreadsheet layout: one row per
// match, with the native price of each known lounge tier in its own column.
// Records for the same match from several portals are merged; the first
// portal to price a tier wins.
func BuildGrid(records []models.Record, now time.Time) [][]any {
	header := []any{"Match #", "Host Team", "Away Team", "Venue", "City", "Country", "Date", "Time"}
	for _, tier := range loungeTiers {
		header = append(header, tier.Label)
	}
	header = append(header, "Last Updated")

	byNumber := make(map[int]*models.Record)
	offersByNumber := make(map[int][]models.Offer)
	var numbers []int
	for i := range records {
		rec := records[i]
		if _, ok := byNumber[rec.MatchNumber]; !ok {
			byNumber[rec.MatchNumber] = &rec
			numbers = append(numbers, rec.MatchNumber)
		}
		offersByNumber[rec.MatchNumber] = append(offersByNumber[rec.MatchNumber], recordOffers(rec)...)
	}
	sort.Ints(numbers)

	rows := [][]any{header}
	stamp := now.UTC().Format(time.RFC3339)
	for _, n := range numbers {
		rec := byNumber[n]
		row := []any{
			rec.MatchNumber,
			rec.HostTeam,
			rec.OpposingTeam,
			rec.Venue.Name,
			rec.Venue.Town,
			rec.Venue.Country,
			rec.MatchDate,
			rec.MatchDayTime,
		}
		for _, tier := range loungeTiers {
			row = append(row, tierPrice(offersByNumber[n], tier.Key))
		}
		row = append(row, stamp)
		rows = append(rows, row)
	}
	return rows
}

// recordOffers returns the record's offer set, falling back to its single
// representative offer when no full menu was exported.
func recordOffers(rec models.Record) []models.Offer {
	if len(rec.Offers) > 0 {
		return rec.Offers
	}
	if rec.LoungeTitle == "" {
		return nil
	}
	return []models.Offer{{Title: rec.LoungeTitle, Available: true, Amount: rec.Price, Currency: rec.Currency, BasePrice: rec.BasePrice}}
}

// tierPrice finds the native price for a tier by case-insensitive substring
// match on the offer title; empty cell when the tier is not offered.
func tierPrice(offers []models.Offer, key string) any {
	for _, o := range offers {
		if strings.Contains(strings.ToLower(o.Title), key) {
			return o.Amount
		}
	}
	return ""
}
