// Package formutil decodes submitted JSON payloads for the API handlers.
//
// Example usage:
//
//	var in struct {
//		Text string `json:"text"`
//	}
//	if err := formutil.Decode(w, r, &in); err != nil {
//		apierrors.BadRequest(w, err.Error())
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/devconnect/internal/app/system/limits"
)

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrMalformed    = errors.New("request body is not valid JSON")
	ErrBodyTooLarge = errors.New("request body is too large")
)

// Decode reads one JSON value from r.Body into v. Unknown fields are
// ignored. The body is capped at limits.MaxJSONBodySize.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &maxErr):
			return ErrBodyTooLarge
		default:
			return ErrMalformed
		}
	}
	return nil
}

// Deref returns *s, or "" for nil. Handy when building validation input
// from optional fields.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
