package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.Catalog = (*Static)(nil)

//go:embed products.json
var productsJSON []byte

// A Static catalog serves the product table bundled with the binary.
type Static struct {
	products []domain.Product
}

func NewStatic() (Static, error) {
	const op = "catalog.NewStatic"

	var ps []domain.Product
	if err := json.Unmarshal(productsJSON, &ps); err != nil {
		return Static{}, fmt.Errorf("%s: %w", op, err)
	}
	return Static{ps}, nil
}

// All returns a copy of the table in featured order.
func (c Static) All() []domain.Product {
	return slices.Clone(c.products)
}

func (c Static) ByID(id int) (domain.Product, bool) {
	i := slices.IndexFunc(c.products, func(p domain.Product) bool {
		return p.ID == id
	})
	if i < 0 {
		return domain.Product{}, false
	}
	return c.products[i], true
}
