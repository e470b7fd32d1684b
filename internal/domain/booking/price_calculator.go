package booking

// PriceCalculator resolves the total for a stay when the caller does not
// supply a pre-quoted price.
type PriceCalculator interface {
	TotalCents(pricePerNightCents int64, stay StayDates) int64
}

// NightlyRateCalculator charges the hotel's nightly rate for each night of
// the half-open stay range.
type NightlyRateCalculator struct{}

func NewNightlyRateCalculator() *NightlyRateCalculator {
	return &NightlyRateCalculator{}
}

func (c *NightlyRateCalculator) TotalCents(pricePerNightCents int64, stay StayDates) int64 {
	return pricePerNightCents * int64(stay.Nights())
}
