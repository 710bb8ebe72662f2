package httphandler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
	"github.com/niksmo/custom-tee/internal/core/service"
	"github.com/shopspring/decimal"
)

// GET v1/products?category=&color=&min_price=&max_price=&q=&sort= (200 OK, 400 Bad request)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/recently-viewed (200 OK)

type ShopHandler struct {
	products port.ProductBrowser
}

func RegisterShop(mux *http.ServeMux, products port.ProductBrowser) {
	h := ShopHandler{products}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/recently-viewed", h.GetRecentlyViewed)
}

func (h ShopHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.GetProducts"

	q, err := parseProductQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Warn("invalid product query", "op", op, "err", err)
		return
	}
	writeJSON(w, op, http.StatusOK, toProducts(h.products.Products(q)))
}

func (h ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.GetProduct"
	log := slog.With("op", op)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.products.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get product", http.StatusServiceUnavailable)
		log.Error("failed to get product", "err", err)
		return
	}
	writeJSON(w, op, http.StatusOK, Product{Product: p, Price: p.Price()})
}

func (h ShopHandler) GetRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	const op = "ShopHandler.GetRecentlyViewed"
	writeJSON(w, op, http.StatusOK, toProducts(h.products.RecentlyViewed()))
}

func parseProductQuery(v url.Values) (domain.ProductQuery, error) {
	q := domain.ProductQuery{
		Category: domain.ProductType(v.Get("category")),
		Color:    domain.Color(v.Get("color")),
		Search:   v.Get("q"),
		Sort:     domain.SortOrder(v.Get("sort")),
	}

	switch q.Sort {
	case "", domain.SortFeatured, domain.SortPriceLow, domain.SortPriceHigh,
		domain.SortNewest, domain.SortRating:
	default:
		return domain.ProductQuery{}, errors.New("invalid sort order")
	}

	for _, f := range []struct {
		name string
		dst  *decimal.NullDecimal
	}{
		{"min_price", &q.MinPrice},
		{"max_price", &q.MaxPrice},
	} {
		s := v.Get(f.name)
		if s == "" {
			continue
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return domain.ProductQuery{}, errors.New("invalid " + f.name)
		}
		*f.dst = decimal.NewNullDecimal(d)
	}
	return q, nil
}

// POST v1/newsletter JSON SubscribeRequest (201 Created, 200 OK if already subscribed, 400 Bad request)

type NewsletterHandler struct {
	newsletter port.Subscriber
}

func RegisterNewsletter(mux *http.ServeMux, newsletter port.Subscriber) {
	h := NewsletterHandler{newsletter}
	mux.HandleFunc("POST /v1/newsletter", h.PostSubscriber)
}

func (h NewsletterHandler) PostSubscriber(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "NewsletterHandler.PostSubscriber"
	log := slog.With("op", op)

	var req SubscribeRequest
	if !readJSON(w, r, op, &req) {
		return
	}

	sub, created, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			http.Error(w, "invalid email", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to subscribe", http.StatusServiceUnavailable)
		log.Error("failed to subscribe", "err", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, op, status, SubscribeResponse{Subscriber: sub, Created: created})
}

// POST v1/contact JSON ContactRequest (201 Created, 400 Bad request)

type ContactHandler struct {
	desk port.MessageSender
}

func RegisterContact(mux *http.ServeMux, desk port.MessageSender) {
	h := ContactHandler{desk}
	mux.HandleFunc("POST /v1/contact", h.PostMessage)
}

func (h ContactHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	const op = "ContactHandler.PostMessage"
	log := slog.With("op", op)

	var req ContactRequest
	if !readJSON(w, r, op, &req) {
		return
	}

	msg, err := h.desk.Send(r.Context(), req.toDomain())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			http.Error(w, "invalid email", http.StatusBadRequest)
		case errors.Is(err, service.ErrIncompleteMessage):
			http.Error(w, service.ErrIncompleteMessage.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to send message", http.StatusServiceUnavailable)
			log.Error("failed to send message", "err", err)
		}
		return
	}
	writeJSON(w, op, http.StatusCreated, msg)
}
