package pipeline

import (
	"sort"

	"github.com/worldcup26/hospitality/internal/pkg/models"
)

// Merge policies for records of the same match arriving from several portals.
type MergePolicy string

const (
	// PolicyConcatenate keeps every (match, portal) pairing as its own row.
	// Used when the export grain is per offer per portal.
	PolicyConcatenate MergePolicy = "concatenate"
	// PolicyLowestWins keeps only the cheapest base-currency record per match
	// number; ties keep the record from the portal visited first.
	PolicyLowestWins MergePolicy = "lowest-wins"
)

// Reconcile merges the per-portal records into the final canonical set. The
// input ordering is the portal visitation order, which is fixed by
// configuration, so the result is deterministic and reconciling the same
// input twice yields an identical set. The output is sorted ascending by
// match number.
func Reconcile(records []models.Record, policy MergePolicy) []models.Record {
	var out []models.Record

	if policy == PolicyLowestWins {
		byNumber := make(map[int]models.Record, len(records))
		var order []int
		for _, r := range records {
			current, seen := byNumber[r.MatchNumber]
			if !seen {
				byNumber[r.MatchNumber] = r
				order = append(order, r.MatchNumber)
				continue
			}
			// Strict less-than: an exact tie keeps the first-seen portal.
			if r.BasePrice < current.BasePrice {
				byNumber[r.MatchNumber] = r
			}
		}
		out = make([]models.Record, 0, len(order))
		for _, n := range order {
			out = append(out, byNumber[n])
		}
	} else {
		out = make([]models.Record, len(records))
		copy(out, records)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out
}
