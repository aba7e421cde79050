package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/eshaffer321/room-allocation-backend/internal/api/dto"
)

// BodyLimit rejects POST, PUT and PATCH requests whose body exceeds maxBytes.
// A declared Content-Length over the limit is refused with 413 up front;
// otherwise the body is wrapped so reading past the limit fails with
// *http.MaxBytesError.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !bodyExpected(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_ = json.NewEncoder(w).Encode(dto.PayloadTooLargeError(maxBytes, r.ContentLength))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func bodyExpected(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
