package models

// Record is the canonical per-match output row. It is built incrementally as
// portals are visited, finalized by reconciliation once every portal has been
// processed, and not mutated after it is handed to the exporter.
type Record struct {
	MatchNumber  int    `json:"match_number"`
	Stage        string `json:"stage"`
	HostTeam     string `json:"host_team"`
	OpposingTeam string `json:"opposing_team"`
	Venue        Venue  `json:"venue"`
	MatchDate    string `json:"match_date"`
	MatchDayTime string `json:"match_day_time"`

	// Representative price. In lowest-price mode this is the cheapest
	// available offer; in all-offers mode it summarizes the cheapest entry of
	// Offers for quick consumption.
	LoungeTitle string  `json:"lounge_title"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	BasePrice   int     `json:"base_price"`

	// Offers holds the full lounge menu in all-offers mode, nil otherwise.
	Offers []Offer `json:"offers,omitempty"`

	// Portal names the sales channel that supplied this record.
	Portal string `json:"portal"`
}
