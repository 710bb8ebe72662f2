package httphandler

import (
	"mime"
	"net/http"
	"slices"
)

// AllowMediaTypes rejects request bodies whose media type is not listed.
// Requests without a body pass through.
func AllowMediaTypes(next http.Handler, mediaTypes ...string) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || !slices.Contains(mediaTypes, mt) {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// AllowJSON is AllowMediaTypes for JSON only APIs.
func AllowJSON(next http.Handler) http.Handler {
	return AllowMediaTypes(next, "application/json")
}
