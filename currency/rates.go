package currency

import (
	"golang.org/x/text/currency"
)

// Rates holds a currency conversion rate table keyed by the "from" currency.
type Rates struct {
	Conversions map[string]map[string]float64 `json:"conversions"`
}

// NewRates creates a new Rates object holding currencies rates.
func NewRates(conversions map[string]map[string]float64) *Rates {
	return &Rates{
		Conversions: conversions,
	}
}

// GetRate returns the conversion rate between two currencies or:
//   - An error if one of the currency strings is not well-formed
//   - An error if any of the currency strings is not a recognized currency code
//   - A ConversionNotFoundError in case the conversion rate between the two
//     given currencies is not in the rate table
func (r *Rates) GetRate(from string, to string) (float64, error) {
	fromUnit, err := currency.ParseISO(from)
	if err != nil {
		return 0, err
	}
	toUnit, err := currency.ParseISO(to)
	if err != nil {
		return 0, err
	}
	if fromUnit.String() == toUnit.String() {
		return 1, nil
	}
	if r.Conversions != nil {
		if conversion, present := r.Conversions[fromUnit.String()][toUnit.String()]; present {
			return conversion, nil
		}
		if reciprocal, present := r.Conversions[toUnit.String()][fromUnit.String()]; present && reciprocal != 0 {
			return 1 / reciprocal, nil
		}
	}
	return 0, ConversionNotFoundError{FromCur: fromUnit.String(), ToCur: toUnit.String()}
}
