package cart

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat tax applied to the subtotal
var DefaultTaxRate = decimal.RequireFromString("0.10")

// Summary holds the totals derived from a cart
type Summary struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	ItemCount     int             `json:"item_count"`
	QuantityTotal int             `json:"quantity_total"`
}

// Summarize computes subtotal = sum(price * quantity), tax = subtotal * taxRate
// and total = subtotal + tax.
func (c Cart) Summarize(taxRate decimal.Decimal) Summary {
	subtotal := decimal.Zero
	quantity := 0
	for _, item := range c.Items {
		item = item.withDefaultQuantity()
		subtotal = subtotal.Add(item.LineTotal())
		quantity += item.Quantity
	}
	tax := subtotal.Mul(taxRate)

	return Summary{
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		TaxRate:       taxRate,
		ItemCount:     len(c.Items),
		QuantityTotal: quantity,
	}
}
