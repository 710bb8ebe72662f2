package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.ProductBrowser = CatalogService{}

// A CatalogService lists products and tracks which ones were viewed.
type CatalogService struct {
	catalog port.Catalog
	viewed  *RecentlyViewed
}

func NewCatalogService(
	catalog port.Catalog, viewed *RecentlyViewed,
) CatalogService {
	const op = "NewCatalogService"

	if catalog == nil || viewed == nil {
		panic(fmt.Errorf("%s: nil dependency", op)) // develop mistake
	}
	return CatalogService{catalog, viewed}
}

// Products returns the listing filtered and ordered by q.
func (s CatalogService) Products(q domain.ProductQuery) []domain.Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	ps := slices.DeleteFunc(s.catalog.All(), func(p domain.Product) bool {
		return !matches(p, q, search)
	})

	switch q.Sort {
	case domain.SortPriceLow:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return a.Price().Cmp(b.Price())
		})
	case domain.SortPriceHigh:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return b.Price().Cmp(a.Price())
		})
	case domain.SortNewest:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmpBool(b.IsNew, a.IsNew)
		})
	case domain.SortRating:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	}
	return ps
}

// Product returns the product and records the view.
func (s CatalogService) Product(
	ctx context.Context, id int,
) (domain.Product, error) {
	const op = "CatalogService.Product"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.catalog.ByID(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %d: %w", op, id, ErrProductNotFound)
	}
	s.viewed.Track(ctx, id)
	return p, nil
}

// RecentlyViewed returns the viewed products, newest first. Ids missing
// from the catalog are skipped.
func (s CatalogService) RecentlyViewed() []domain.Product {
	ids := s.viewed.IDs()
	ps := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.catalog.ByID(id); ok {
			ps = append(ps, p)
		}
	}
	return ps
}

func matches(p domain.Product, q domain.ProductQuery, search string) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.Color != "" && p.Color != q.Color {
		return false
	}
	price := p.Price()
	if q.MinPrice.Valid && price.LessThan(q.MinPrice.Decimal) {
		return false
	}
	if q.MaxPrice.Valid && price.GreaterThan(q.MaxPrice.Decimal) {
		return false
	}
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(string(p.Category), search) ||
		strings.Contains(string(p.Color), search)
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
