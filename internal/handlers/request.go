package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogapi/internal/auth"
	"blogapi/internal/errs"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

const (
	msgInvalidBody  = "Invalid request body"
	msgUnauthorized = "Unauthorized"
)

// SubjectResolver identifies the caller of a request. It never fails;
// unauthenticated callers resolve to auth.Anonymous.
type SubjectResolver interface {
	Resolve(r *http.Request) auth.Subject
}

// requireSubject resolves the caller and rejects anonymous requests before
// any body is read.
func requireSubject(resolver SubjectResolver, r *http.Request) (auth.Subject, error) {
	subject := resolver.Resolve(r)
	if subject.IsAnonymous() {
		return subject, errs.Unauthorized(msgUnauthorized)
	}
	return subject, nil
}

// decodeJSON reads a single JSON object from the request body into dst.
// Malformed, oversized or trailing content is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errs.Validation(msgInvalidBody)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.Validation(msgInvalidBody)
	}
	return nil
}

// blogID returns the {id} route parameter.
func blogID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
