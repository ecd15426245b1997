package entity

import "github.com/shopspring/decimal"

// TaxRate is the flat surcharge added on top of the subtotal. It is never stored as a line.
var TaxRate = decimal.RequireFromString("0.05")

var hundred = decimal.NewFromInt(100)

// PriceSummary is the subtotal/tax/total triple shown at cart and checkout time
type PriceSummary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func NewPriceSummary(subtotal decimal.Decimal) PriceSummary {
	tax := subtotal.Mul(TaxRate).Round(2)
	return PriceSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// TotalMinorUnits converts the total to the smallest currency unit (paise, cents)
func (p PriceSummary) TotalMinorUnits() int64 {
	return p.Total.Mul(hundred).Round(0).IntPart()
}

// LineTotal returns the current catalog price times quantity; zero without a loaded medicine
func (i *CartItem) LineTotal() decimal.Decimal {
	if i.Medicine == nil {
		return decimal.Zero
	}
	return i.Medicine.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SummarizeCart prices cart lines at current catalog prices
func SummarizeCart(items []CartItem) PriceSummary {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineTotal())
	}
	return NewPriceSummary(subtotal)
}
