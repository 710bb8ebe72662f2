package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

// GET v1/cart (200 OK)
// POST v1/cart/items JSON CartItemRequest (201 Created, 400 Bad request)
// PATCH v1/cart/items/{id} JSON CartItemPatchRequest (200 OK, 400 Bad request)
// DELETE v1/cart/items/{id} (200 OK)
// DELETE v1/cart (200 OK)

type CartHandler struct {
	cart port.Cart
}

func RegisterCart(mux *http.ServeMux, cart port.Cart) {
	h := CartHandler{cart}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	writeJSON(w, op, http.StatusOK, h.view())
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var req CartItemRequest
	if !readJSON(w, r, op, &req) {
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid cart item", "err", err)
		return
	}

	item := h.cart.AddToCart(r.Context(), req.toDomain())
	log.Info("item is added", "itemID", item.ID)
	writeJSON(w, op, http.StatusCreated, item)
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	var req CartItemPatchRequest
	if !readJSON(w, r, op, &req) {
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid cart item patch", "err", err)
		return
	}

	h.cart.UpdateCartItem(r.Context(), r.PathValue("id"), req.toDomain())
	writeJSON(w, op, http.StatusOK, h.view())
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	h.cart.RemoveFromCart(r.Context(), r.PathValue("id"))
	writeJSON(w, op, http.StatusOK, h.view())
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"
	h.cart.ClearCart(r.Context())
	writeJSON(w, op, http.StatusOK, h.view())
}

func (h CartHandler) view() Cart {
	return Cart{
		Items:   h.cart.Items(),
		Count:   h.cart.Count(),
		Total:   h.cart.Total(),
		Summary: h.cart.Summary(),
		Unsaved: h.cart.Unsaved(),
	}
}

// GET v1/preferences (200 OK)
// PATCH v1/preferences JSON domain.PreferencesPatch (200 OK, 400 Bad request)
// POST v1/preferences/theme/next (200 OK)

type PreferencesHandler struct {
	prefs port.Preferences
}

func RegisterPreferences(mux *http.ServeMux, prefs port.Preferences) {
	h := PreferencesHandler{prefs}
	mux.HandleFunc("GET /v1/preferences", h.GetPreferences)
	mux.HandleFunc("PATCH /v1/preferences", h.PatchPreferences)
	mux.HandleFunc("POST /v1/preferences/theme/next", h.PostNextTheme)
}

func (h PreferencesHandler) GetPreferences(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "PreferencesHandler.GetPreferences"
	writeJSON(w, op, http.StatusOK, h.prefs.Preferences())
}

func (h PreferencesHandler) PatchPreferences(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "PreferencesHandler.PatchPreferences"

	var patch domain.PreferencesPatch
	if !readJSON(w, r, op, &patch) {
		return
	}
	writeJSON(w, op, http.StatusOK, h.prefs.UpdatePreferences(r.Context(), patch))
}

func (h PreferencesHandler) PostNextTheme(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "PreferencesHandler.PostNextTheme"
	writeJSON(w, op, http.StatusOK, h.prefs.CycleTheme(r.Context()))
}

func readJSON(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		slog.Warn("failed to parse JSON", "op", op, "err", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, op string, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
