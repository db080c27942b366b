package models

// Portal is one national sales channel. Static configuration, not runtime state.
type Portal struct {
	Code     string // country tag used by the portal API, e.g. "us"
	Name     string // display name, recorded as provenance on exported records
	Currency string // currency the portal prices in, e.g. "USD"
	BaseURL  string
	Shape    OfferShape
}

// OfferShape selects which price-listing payload a portal serves.
type OfferShape string

const (
	// ShapeLounges is an array of lounge objects with a display price string.
	ShapeLounges OfferShape = "lounges"
	// ShapeCategories is an array of named categories with structured
	// availability flags and numeric amounts.
	ShapeCategories OfferShape = "categories"
)

// RawMatch is a match exactly as one portal's API reports it. Transient:
// produced per portal visit and discarded after normalization.
type RawMatch struct {
	PerformanceID string
	MatchNumber   int // the only cross-portal join key; 0 means missing
	Stage         string
	HostTeam      string
	OpposingTeam  string
	Venue         Venue
	MatchDate     string
	MatchDayTime  string
}

// Venue describes where a match is played.
type Venue struct {
	Name    string `json:"name"`
	Town    string `json:"town"`
	Country string `json:"country"`
}

// RawLounge is one entry of the lounges payload shape: a package name plus a
// human-readable price string like "$4,900".
type RawLounge struct {
	Title       string
	PriceString string
}

// RawCategory is one entry of the price-categories payload shape.
type RawCategory struct {
	Name              string
	HasAvailableSeats bool
	PriceCategories   []RawPriceEntry
}

// RawPriceEntry is a single structured price inside a RawCategory.
type RawPriceEntry struct {
	IsAvailable bool
	Amount      float64
}

// RawOffers carries a portal's price listing for one match in whichever of the
// two payload shapes that portal serves. Exactly one of the slices is set.
type RawOffers struct {
	Lounges    []RawLounge
	Categories []RawCategory
}

// Offer is one priced hospitality product tied to a match.
type Offer struct {
	Title       string  `json:"title"`
	Available   bool    `json:"available"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	PriceString string  `json:"price_string,omitempty"` // original display price, lounges shape only
	BasePrice   int     `json:"base_price"`             // amount converted to the base currency, whole units
}

// Priced reports whether the offer carries a usable price.
func (o Offer) Priced() bool {
	return o.Available && o.Amount > 0
}
