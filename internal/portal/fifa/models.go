package fifa

// API models for the FIFA 2026 hospitality portals.
// Matches: GET /next-api/matches-all?productCode=26FWC&productType=5
// Lounges: GET /next-api/lounges?productCode=26FWC&productTypeCode=SM&quantity=1&performanceId=...
// Both endpoints want country-tag and language-tag headers.

type apiMatch struct {
	PerformanceID string    `json:"PerformanceId"`
	MatchNumber   int       `json:"MatchNumber"`
	Stage         string    `json:"Stage"`
	HostTeam      *apiTeam  `json:"HostTeam"`
	OpposingTeam  *apiTeam  `json:"OpposingTeam"`
	Venue         *apiVenue `json:"Venue"`
	MatchDate     string    `json:"MatchDate"`
	MatchDayTime  string    `json:"MatchDayTime"`
	CountryCode   string    `json:"CountryCode"`
}

type apiTeam struct {
	ExternalName string `json:"ExternalName"`
	Code         string `json:"Code"`
}

type apiVenue struct {
	Name    string `json:"Name"`
	Code    string `json:"Code"`
	Town    string `json:"Town"`
	Country string `json:"Country"`
}

// apiLounge is the "lounges" payload shape: price is a display string.
type apiLounge struct {
	Title        string `json:"title"`
	ComparePrice string `json:"comparePrice"`
}

// apiCategory is the structured "categories" payload shape.
type apiCategory struct {
	Name              string             `json:"name"`
	HasAvailableSeats bool               `json:"hasAvailableSeats"`
	PriceCategories   []apiPriceCategory `json:"priceCategories"`
}

type apiPriceCategory struct {
	IsAvailable bool    `json:"isAvailable"`
	Amount      float64 `json:"amount"`
}
