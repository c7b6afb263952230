package quote

// Delivered is one finished job's invoice total and the points the shop
// actually spent working it.
type Delivered struct {
	Dollars float64
	Points  float64
}

// SmoothRate folds one delivery into the dollars-per-point rate.
// Formula: new = 0.7 * currentRate + 0.3 * (dollars / points).
// Returns the current rate unchanged on insufficient data, so a bad record
// never poisons the conversion.
func SmoothRate(currentRate, dollars, points float64) float64 {
	if dollars <= 0 || points <= 0 {
		return currentRate
	}
	implied := dollars / points
	return 0.7*currentRate + 0.3*implied
}

// CalibrateRate replays delivered jobs oldest first, so the most recent
// deliveries weigh heaviest in the resulting rate. A non-positive starting
// rate falls back to the shop default.
func CalibrateRate(currentRate float64, history []Delivered) float64 {
	rate := currentRate
	if rate <= 0 {
		rate = DefaultDollarsPerPoint
	}
	for _, d := range history {
		rate = SmoothRate(rate, d.Dollars, d.Points)
	}
	return rate
}
