package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const DefaultTextColor = "#000000"

// An ImageRef is a URL or a data URL of a design image.
// The zero value means no image and is encoded as JSON null.
type ImageRef string

func (r ImageRef) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ImageRef(s)
	return nil
}

type CartItem struct {
	ID          string          `json:"id"`
	ProductType ProductType     `json:"productType"`
	Size        Size            `json:"size"`
	Color       Color           `json:"color"`
	DesignImage ImageRef        `json:"designImage"`
	CustomText  string          `json:"customText"`
	TextColor   string          `json:"textColor"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// LineTotal is the unit price multiplied by quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// A CartItemPatch holds the fields to merge into a cart item.
// Nil fields are left untouched.
type CartItemPatch struct {
	ProductType *ProductType     `json:"productType,omitempty"`
	Size        *Size            `json:"size,omitempty"`
	Color       *Color           `json:"color,omitempty"`
	DesignImage *ImageRef        `json:"designImage,omitempty"`
	CustomText  *string          `json:"customText,omitempty"`
	TextColor   *string          `json:"textColor,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

func (p CartItemPatch) Empty() bool {
	return p == CartItemPatch{}
}

// Apply returns a copy of item with the patch merged in.
func (p CartItemPatch) Apply(item CartItem) CartItem {
	if p.ProductType != nil {
		item.ProductType = *p.ProductType
	}
	if p.Size != nil {
		item.Size = *p.Size
	}
	if p.Color != nil {
		item.Color = *p.Color
	}
	if p.DesignImage != nil {
		item.DesignImage = *p.DesignImage
	}
	if p.CustomText != nil {
		item.CustomText = *p.CustomText
	}
	if p.TextColor != nil {
		item.TextColor = *p.TextColor
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	return item
}
