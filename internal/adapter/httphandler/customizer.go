package httphandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/niksmo/custom-tee/internal/core/domain"
	"github.com/niksmo/custom-tee/internal/core/port"
)

// GET v1/customizer (200 OK)
// PATCH v1/customizer JSON domain.CustomizationPatch (200 OK, 400 Bad request)
// POST v1/customizer/commit (201 Created)
// POST v1/customizer/reset (200 OK)
// GET v1/customizations (200 OK)

type CustomizerHandler struct {
	session port.Customizer
	history port.History[domain.SavedCustomization]
}

func RegisterCustomizer(
	mux *http.ServeMux,
	session port.Customizer,
	history port.History[domain.SavedCustomization],
) {
	h := CustomizerHandler{session, history}
	mux.HandleFunc("GET /v1/customizer", h.GetCustomizer)
	mux.HandleFunc("PATCH /v1/customizer", h.PatchCustomizer)
	mux.HandleFunc("POST /v1/customizer/commit", h.PostCommit)
	mux.HandleFunc("POST /v1/customizer/reset", h.PostReset)
	mux.HandleFunc("GET /v1/customizations", h.GetCustomizations)
}

func (h CustomizerHandler) GetCustomizer(w http.ResponseWriter, r *http.Request) {
	const op = "CustomizerHandler.GetCustomizer"
	writeJSON(w, op, http.StatusOK, h.view(h.session.Snapshot()))
}

func (h CustomizerHandler) PatchCustomizer(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "CustomizerHandler.PatchCustomizer"

	var patch domain.CustomizationPatch
	if !readJSON(w, r, op, &patch) {
		return
	}
	if err := validateCustomizationPatch(patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, op, http.StatusOK, h.view(h.session.Update(patch)))
}

func (h CustomizerHandler) PostCommit(w http.ResponseWriter, r *http.Request) {
	const op = "CustomizerHandler.PostCommit"
	log := slog.With("op", op)

	item, err := h.session.Commit(r.Context())
	if err != nil {
		http.Error(w, "failed to add to cart", http.StatusServiceUnavailable)
		log.Warn("failed to commit customization", "err", err)
		return
	}
	writeJSON(w, op, http.StatusCreated, item)
}

func (h CustomizerHandler) PostReset(w http.ResponseWriter, r *http.Request) {
	const op = "CustomizerHandler.PostReset"
	writeJSON(w, op, http.StatusOK, h.view(h.session.Reset()))
}

func (h CustomizerHandler) GetCustomizations(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "CustomizerHandler.GetCustomizations"
	writeJSON(w, op, http.StatusOK, h.history.Entries())
}

func (h CustomizerHandler) view(c domain.Customization) Customizer {
	return Customizer{Options: c, Price: domain.ResolvePrice(c.ProductType)}
}

func validateCustomizationPatch(p domain.CustomizationPatch) error {
	switch {
	case p.ProductType != nil && !p.ProductType.Valid():
		return errors.New("invalid productType")
	case p.Size != nil && !p.Size.Valid():
		return errors.New("invalid size")
	case p.Color != nil && !p.Color.Valid():
		return errors.New("invalid color")
	case p.Build != nil && !p.Build.Valid():
		return errors.New("invalid build")
	}
	return nil
}

// POST v1/designs multipart/form-data image=<file> (201 Created, 400 Bad request, 413 Request entity too large)

type DesignsHandler struct {
	images   port.ImageProcessor
	maxBytes int64
}

func RegisterDesigns(
	mux *http.ServeMux, images port.ImageProcessor, maxBytes int64,
) {
	h := DesignsHandler{images, maxBytes}
	mux.HandleFunc("POST /v1/designs", h.PostDesign)
}

func (h DesignsHandler) PostDesign(w http.ResponseWriter, r *http.Request) {
	const op = "DesignsHandler.PostDesign"
	log := slog.With("op", op)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<10)
	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "image is too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "image file is required", http.StatusBadRequest)
		log.Warn("failed to read form file", "err", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		http.Error(w, "failed to read image", http.StatusBadRequest)
		log.Warn("failed to read image", "err", err)
		return
	}
	if int64(len(data)) > h.maxBytes {
		http.Error(w, "image is too large", http.StatusRequestEntityTooLarge)
		return
	}

	ref, err := h.images.Process(r.Context(), data)
	if err != nil {
		http.Error(w, "unsupported image", http.StatusBadRequest)
		log.Warn("failed to process image", "err", err)
		return
	}
	writeJSON(w, op, http.StatusCreated, DesignResponse{DesignImage: ref})
}
