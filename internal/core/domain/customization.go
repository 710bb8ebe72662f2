package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinQuantity = 1
	MaxQuantity = 10

	MaxTextLines = 3
	MaxTextChars = 100

	SampleDesignImage ImageRef = "https://images.unsplash.com/photo-1576566588028-4147f3842f27?q=80&w=1000"
)

// A Customization is an in-progress product configuration.
type Customization struct {
	ProductType  ProductType `json:"productType"`
	Height       int         `json:"height"`
	Weight       int         `json:"weight"`
	Build        Build       `json:"build"`
	Size         Size        `json:"size"`
	Color        Color       `json:"color"`
	DesignImage  ImageRef    `json:"designImage"`
	CustomText   string      `json:"customText"`
	TextColor    string      `json:"textColor"`
	ThemeVariant int         `json:"themeVariant"`
	Quantity     int         `json:"quantity"`
}

func DefaultCustomization() Customization {
	return Customization{
		ProductType:  TShirt,
		Height:       180,
		Weight:       80,
		Build:        Athletic,
		Size:         SizeM,
		Color:        White,
		DesignImage:  SampleDesignImage,
		CustomText:   "",
		TextColor:    DefaultTextColor,
		ThemeVariant: 0,
		Quantity:     1,
	}
}

// CartItem converts c into a priced cart payload. The id is left for the
// cart to assign.
func (c Customization) CartItem() CartItem {
	return CartItem{
		ProductType: c.ProductType,
		Size:        c.Size,
		Color:       c.Color,
		DesignImage: c.DesignImage,
		CustomText:  c.CustomText,
		TextColor:   c.TextColor,
		Quantity:    c.Quantity,
		Price:       ResolvePrice(c.ProductType),
	}
}

type CustomizationPatch struct {
	ProductType  *ProductType `json:"productType,omitempty"`
	Height       *int         `json:"height,omitempty"`
	Weight       *int         `json:"weight,omitempty"`
	Build        *Build       `json:"build,omitempty"`
	Size         *Size        `json:"size,omitempty"`
	Color        *Color       `json:"color,omitempty"`
	DesignImage  *ImageRef    `json:"designImage,omitempty"`
	CustomText   *string      `json:"customText,omitempty"`
	TextColor    *string      `json:"textColor,omitempty"`
	ThemeVariant *int         `json:"themeVariant,omitempty"`
	Quantity     *int         `json:"quantity,omitempty"`
}

// Apply merges the patch into c, clamping quantity and text to the
// authoring bounds.
func (p CustomizationPatch) Apply(c Customization) Customization {
	if p.ProductType != nil {
		c.ProductType = *p.ProductType
	}
	if p.Height != nil {
		c.Height = *p.Height
	}
	if p.Weight != nil {
		c.Weight = *p.Weight
	}
	if p.Build != nil {
		c.Build = *p.Build
	}
	if p.Size != nil {
		c.Size = *p.Size
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.DesignImage != nil {
		c.DesignImage = *p.DesignImage
	}
	if p.CustomText != nil {
		c.CustomText = LimitText(*p.CustomText)
	}
	if p.TextColor != nil {
		c.TextColor = *p.TextColor
	}
	if p.ThemeVariant != nil {
		c.ThemeVariant = WrapThemeVariant(*p.ThemeVariant)
	}
	if p.Quantity != nil {
		c.Quantity = ClampQuantity(*p.Quantity)
	}
	return c
}

func ClampQuantity(q int) int {
	return min(max(q, MinQuantity), MaxQuantity)
}

// LimitText keeps the first MaxTextLines lines and at most MaxTextChars
// characters of s.
func LimitText(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > MaxTextLines {
		s = strings.Join(lines[:MaxTextLines], "\n")
	}
	if utf8.RuneCountInString(s) > MaxTextChars {
		s = string([]rune(s)[:MaxTextChars])
	}
	return s
}

// A SavedCustomization is an entry of the customization history log.
type SavedCustomization struct {
	ID string `json:"id"`
	Customization
	Timestamp time.Time `json:"timestamp"`
}
