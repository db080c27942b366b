package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// placeholderTeam fills in team names for matches whose pairing is not decided
// yet (knockout slots, playoff winners).
const placeholderTeam = "TBD"

// priceRe extracts the leading digit group of a display price such as
// "$4,900" or "€2.500" (first currency-symbol-prefixed group wins).
var priceRe = regexp.MustCompile(`[\$€]?([0-9,]+)`)

// ParsePriceAmount pulls a numeric amount out of a human-readable price
// string. Commas are stripped; a string with no digit group yields 0, which
// marks the offer as unpriced.
func ParsePriceAmount(s string) float64 {
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return float64(n)
}

// venueCurrency maps a venue's country name to the currency tickets are sold
// in there. The tournament is hosted across three countries only.
func venueCurrency(country string) string {
	switch strings.ToLower(strings.TrimSpace(country)) {
	case "mexico":
		return "MXN"
	case "canada":
		return "CAD"
	default:
		return "USD"
	}
}

// offerCurrency applies the run's currency-attribution rule. The rule is
// fixed per pipeline run, never mixed per record.
func offerCurrency(rule string, p models.Portal, match models.RawMatch) string {
	if rule == config.CurrencyRuleVenue {
		return venueCurrency(match.Venue.Country)
	}
	return p.Currency
}

// Normalize maps one portal's raw match and price payload into a canonical
// in-progress record. Returns false when the match has no match number: the
// number is the only cross-portal join key, so such records are discarded.
// The returned record carries the full normalized offer set; selection and
// conversion happen in later stages.
func Normalize(raw models.RawMatch, offers models.RawOffers, p models.Portal, opts Options) (models.Record, bool) {
	if raw.MatchNumber == 0 {
		return models.Record{}, false
	}

	currency := offerCurrency(opts.CurrencyRule, p, raw)

	rec := models.Record{
		MatchNumber:  raw.MatchNumber,
		Stage:        raw.Stage,
		HostTeam:     defaultTeam(raw.HostTeam),
		OpposingTeam: defaultTeam(raw.OpposingTeam),
		Venue:        raw.Venue,
		MatchDate:    raw.MatchDate,
		MatchDayTime: raw.MatchDayTime,
		Currency:     currency,
		Portal:       p.Name,
		Offers:       normalizeOffers(offers, currency),
	}
	return rec, true
}

func defaultTeam(name string) string {
	if strings.TrimSpace(name) == "" {
		return placeholderTeam
	}
	return name
}

// normalizeOffers builds the offer set from whichever payload shape the
// portal served.
func normalizeOffers(raw models.RawOffers, currency string) []models.Offer {
	if len(raw.Categories) > 0 {
		return offersFromCategories(raw.Categories, currency)
	}
	return offersFromLounges(raw.Lounges, currency)
}

// offersFromLounges handles the display-string shape. Every listed lounge is
// treated as available; ones whose price string yields no amount stay in the
// set as unpriced and are filtered out by selection.
func offersFromLounges(lounges []models.RawLounge, currency string) []models.Offer {
	out := make([]models.Offer, 0, len(lounges))
	for _, l := range lounges {
		out = append(out, models.Offer{
			Title:       l.Title,
			Available:   true,
			Amount:      ParsePriceAmount(l.PriceString),
			Currency:    currency,
			PriceString: l.PriceString,
		})
	}
	return out
}

// offersFromCategories handles the structured shape: only entries flagged
// available with a positive amount become offers.
func offersFromCategories(cats []models.RawCategory, currency string) []models.Offer {
	var out []models.Offer
	for _, cat := range cats {
		if !cat.HasAvailableSeats {
			continue
		}
		for _, entry := range cat.PriceCategories {
			if !entry.IsAvailable || entry.Amount <= 0 {
				continue
			}
			out = append(out, models.Offer{
				Title:     cat.Name,
				Available: true,
				Amount:    entry.Amount,
				Currency:  currency,
			})
		}
	}
	return out
}
