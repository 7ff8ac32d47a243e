package currency

// Conversions allows to get a conversion rate between two currencies.
//
// if one of the currency strings is not well-formed, or is not a recognized
// currency code, or there is no conversion between the two currencies,
// GetRate returns an error.
type Conversions interface {
	GetRate(from string, to string) (float64, error)
}
