package httphandler

import (
	"errors"
	"fmt"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/shopspring/decimal"
)

var errInvalidField = errors.New("invalid field")

type (
	Cart struct {
		Items   []domain.CartItem   `json:"items"`
		Count   int                 `json:"count"`
		Total   decimal.Decimal     `json:"total"`
		Summary domain.OrderSummary `json:"summary"`
		Unsaved bool                `json:"unsaved"`
	}

	// CartItemRequest is a new line item. Its price is always resolved
	// from the product type.
	CartItemRequest struct {
		ProductType domain.ProductType `json:"productType"`
		Size        domain.Size        `json:"size"`
		Color       domain.Color       `json:"color"`
		DesignImage domain.ImageRef    `json:"designImage"`
		CustomText  string             `json:"customText"`
		TextColor   string             `json:"textColor"`
		Quantity    int                `json:"quantity"`
	}

	CartItemPatchRequest struct {
		ProductType *domain.ProductType `json:"productType"`
		Size        *domain.Size        `json:"size"`
		Color       *domain.Color       `json:"color"`
		DesignImage *domain.ImageRef    `json:"designImage"`
		CustomText  *string             `json:"customText"`
		TextColor   *string             `json:"textColor"`
		Quantity    *int                `json:"quantity"`
	}
)

func (r CartItemRequest) validate() error {
	switch {
	case !r.ProductType.Valid():
		return fmt.Errorf("productType %q: %w", r.ProductType, errInvalidField)
	case !r.Size.Valid():
		return fmt.Errorf("size %q: %w", r.Size, errInvalidField)
	case !r.Color.Valid():
		return fmt.Errorf("color %q: %w", r.Color, errInvalidField)
	case r.Quantity < 1:
		return fmt.Errorf("quantity %d: %w", r.Quantity, errInvalidField)
	}
	return nil
}

func (r CartItemRequest) toDomain() domain.CartItem {
	textColor := r.TextColor
	if textColor == "" {
		textColor = domain.DefaultTextColor
	}
	return domain.CartItem{
		ProductType: r.ProductType,
		Size:        r.Size,
		Color:       r.Color,
		DesignImage: r.DesignImage,
		CustomText:  r.CustomText,
		TextColor:   textColor,
		Quantity:    r.Quantity,
		Price:       domain.ResolvePrice(r.ProductType),
	}
}

func (r CartItemPatchRequest) validate() error {
	switch {
	case r.ProductType != nil && !r.ProductType.Valid():
		return fmt.Errorf("productType %q: %w", *r.ProductType, errInvalidField)
	case r.Size != nil && !r.Size.Valid():
		return fmt.Errorf("size %q: %w", *r.Size, errInvalidField)
	case r.Color != nil && !r.Color.Valid():
		return fmt.Errorf("color %q: %w", *r.Color, errInvalidField)
	case r.Quantity != nil && *r.Quantity < 1:
		return fmt.Errorf("quantity %d: %w", *r.Quantity, errInvalidField)
	}
	return nil
}

// toDomain reprices the item when its product type changes.
func (r CartItemPatchRequest) toDomain() domain.CartItemPatch {
	p := domain.CartItemPatch{
		ProductType: r.ProductType,
		Size:        r.Size,
		Color:       r.Color,
		DesignImage: r.DesignImage,
		CustomText:  r.CustomText,
		TextColor:   r.TextColor,
		Quantity:    r.Quantity,
	}
	if r.ProductType != nil {
		price := domain.ResolvePrice(*r.ProductType)
		p.Price = &price
	}
	return p
}

type (
	Product struct {
		domain.Product
		Price decimal.Decimal `json:"price"`
	}

	Customizer struct {
		Options domain.Customization `json:"options"`
		Price   decimal.Decimal      `json:"price"`
	}

	CheckoutStatus struct {
		State domain.CheckoutState `json:"state"`
		Error string               `json:"error,omitempty"`
	}

	SubscribeRequest struct {
		Email string `json:"email"`
	}

	SubscribeResponse struct {
		domain.Subscriber
		Created bool `json:"created"`
	}

	ContactRequest struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}

	DesignResponse struct {
		DesignImage domain.ImageRef `json:"designImage"`
	}
)

func (r ContactRequest) toDomain() domain.ContactMessage {
	return domain.ContactMessage{
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
	}
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = Product{Product: p, Price: p.Price()}
	}
	return out
}
