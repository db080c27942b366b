// Package portal defines the narrow interface the pipeline uses to talk to
// the national sales portals, so the reconciliation core can be exercised
// with fabricated data and no real browser.
package portal

import (
	"context"

	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// Client fetches raw listings from one portal at a time. Implementations may
// hold a shared browser-automation resource, so callers must not invoke
// methods concurrently; the pipeline visits portals strictly sequentially.
type Client interface {
	// ListMatches returns every match the portal currently lists. A failure
	// here is fatal for the run.
	ListMatches(ctx context.Context, p models.Portal) ([]models.RawMatch, error)

	// ListOffers returns the price listing for one match. A failure here is
	// recoverable: the caller treats the match as having no offers and moves
	// on. Implementations are expected to pace consecutive calls themselves
	// to respect upstream rate limits.
	ListOffers(ctx context.Context, p models.Portal, match models.RawMatch) (models.RawOffers, error)
}
