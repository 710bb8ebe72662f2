package domain

import "github.com/shopspring/decimal"

// Money is written as a JSON number in persisted records and responses.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	defaultPrice = decimal.RequireFromString("24.99")

	priceTable = map[ProductType]decimal.Decimal{
		TShirt:  decimal.RequireFromString("24.99"),
		Hoodie:  decimal.RequireFromString("49.99"),
		Sleevie: decimal.RequireFromString("34.99"),
		Cap:     decimal.RequireFromString("19.99"),
	}

	// ShippingCost is charged once per non-empty order.
	ShippingCost = decimal.RequireFromString("5.99")

	TaxRate = decimal.RequireFromString("0.08")
)

// ResolvePrice returns the unit price of t. Unknown types cost the same
// as a t-shirt.
func ResolvePrice(t ProductType) decimal.Decimal {
	if p, ok := priceTable[t]; ok {
		return p
	}
	return defaultPrice
}

type OrderSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize computes the checkout breakdown for a cart subtotal.
func Summarize(subtotal decimal.Decimal) OrderSummary {
	if !subtotal.IsPositive() {
		return OrderSummary{
			Subtotal: decimal.Zero,
			Shipping: decimal.Zero,
			Tax:      decimal.Zero,
			Total:    decimal.Zero,
		}
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return OrderSummary{
		Subtotal: subtotal,
		Shipping: ShippingCost,
		Tax:      tax,
		Total:    subtotal.Add(ShippingCost).Add(tax),
	}
}
