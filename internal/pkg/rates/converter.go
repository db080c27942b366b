package rates

import "math"

// ToBase converts an amount in the given currency to the snapshot's base
// currency, rounded to whole units. Rounding is half away from zero so that
// repeated runs over the same snapshot reproduce identical totals.
//
// A currency missing from the snapshot converts with a divisor of 1, i.e. the
// amount is treated as already denominated in the base currency. This keeps a
// stale or partial rate feed from dropping records.
func (s Snapshot) ToBase(amount float64, currency string) int {
	if currency == s.Base {
		return roundHalfAway(amount)
	}
	rate, ok := s.Rates[currency]
	if !ok || rate == 0 {
		rate = 1
	}
	return roundHalfAway(amount / rate)
}

func roundHalfAway(x float64) int {
	return int(math.Round(x))
}
