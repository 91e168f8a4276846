package currency

import "math"

// DefaultBRLToVNDRate is the fixed exchange rate applied when no rate is
// configured. Source prices and freight charges arrive in BRL; everything
// downstream reports VND.
const DefaultBRLToVNDRate = 5200.0

// Converter converts BRL amounts into VND at a fixed rate.
type Converter struct {
	rate float64
}

func NewConverter(rate float64) *Converter {
	if rate <= 0 {
		rate = DefaultBRLToVNDRate
	}
	return &Converter{rate: rate}
}

// ToVND converts an amount in BRL to whole VND.
func (c *Converter) ToVND(amountBRL float64) float64 {
	return math.Round(amountBRL * c.rate)
}
