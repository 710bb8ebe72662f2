package domain

import "github.com/shopspring/decimal"

// A Product is a catalog listing. Its price is resolved from the
// category and never stored.
type Product struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Image       string      `json:"image"`
	Category    ProductType `json:"category"`
	Color       Color       `json:"color"`
	IsNew       bool        `json:"isNew"`
	Rating      float64     `json:"rating"`
	Description string      `json:"description"`
	Sizes       []Size      `json:"sizes"`
	Colors      []Color     `json:"colors"`
}

func (p Product) Price() decimal.Decimal {
	return ResolvePrice(p.Category)
}

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortNewest    SortOrder = "newest"
	SortRating    SortOrder = "rating"
)

// A ProductQuery narrows and orders a catalog listing.
// Zero fields do not filter.
type ProductQuery struct {
	Category ProductType
	Color    Color
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Search   string
	Sort     SortOrder
}
