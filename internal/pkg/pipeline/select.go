package pipeline

import (
	"github.com/worldcup26/hospitality/internal/pkg/config"
	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// SelectOffers picks the representative offers for a match according to the
// run's price mode.
//
// In all-offers mode every priced offer passes through unchanged, each
// becoming one exported row. In lowest mode only the cheapest available offer
// survives; ties keep the first offer in iteration order (the portal's own
// listing order, never re-sorted). An empty result means the match has no
// usable price and is excluded from output entirely.
func SelectOffers(offers []models.Offer, mode string) []models.Offer {
	if mode == config.PriceModeLowest {
		if lowest, ok := LowestAvailable(offers); ok {
			return []models.Offer{lowest}
		}
		return nil
	}

	out := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		if o.Priced() {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// LowestAvailable scans the offers and returns the cheapest one that is
// available with a strictly positive amount. The boolean is false when no
// offer qualifies.
func LowestAvailable(offers []models.Offer) (models.Offer, bool) {
	var best models.Offer
	found := false
	for _, o := range offers {
		if !o.Priced() {
			continue
		}
		if !found || o.Amount < best.Amount {
			best = o
			found = true
		}
	}
	return best, found
}
