package www

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"fabcatalogue/auth"
	"fabcatalogue/logger"
	"fabcatalogue/schema"
	"fabcatalogue/store"
)

const (
	msgUnauthenticated = "A valid access token is required for this function."
	msgNotAuthorised   = "You are not authorised to perform this function."
	msgInternal        = "internal server error"

	maxBodyBytes = 1 << 20
)

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	h.writeJSON(w, http.StatusOK, data)
}

func (h *Handlers) jsonCreated(w http.ResponseWriter, data any) {
	h.writeJSON(w, http.StatusCreated, data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	h.writeJSON(w, code, map[string]string{"error": msg})
}

func (h *Handlers) jsonMessage(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Default().WithError(err).Error("www: encode response")
	}
}

// writeError maps store, schema and auth errors onto status codes. Anything
// unrecognised is logged and reported as a 500.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *schema.ValidationError
		missing    *schema.MissingFieldError
		integrity  *store.IntegrityError
		data       *store.DataError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validation):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid input.", "fields": validation.Fields})
	case errors.As(err, &missing):
		h.jsonError(w, missing.Error(), http.StatusBadRequest)
	case errors.As(err, &integrity):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"integrity_error": integrity.Detail})
	case errors.As(err, &data):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"data_error": data.Detail})
	case errors.As(err, &tooLarge):
		h.jsonError(w, fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit), http.StatusRequestEntityTooLarge)
	case errors.Is(err, auth.ErrUnauthenticated):
		h.jsonError(w, msgUnauthenticated, http.StatusUnauthorized)
	case errors.Is(err, auth.ErrForbidden):
		h.jsonError(w, msgNotAuthorised, http.StatusUnauthorized)
	case errors.Is(err, store.ErrNotFound):
		h.jsonError(w, "The requested record does not exist in the database.", http.StatusNotFound)
	default:
		logger.FromContext(r.Context()).WithError(err).Error("www: request failed")
		h.jsonError(w, msgInternal, http.StatusInternalServerError)
	}
}

// Not-found messages differ by operation so the client knows nothing was changed.

func notFoundRead(entity string, id any) string {
	return fmt.Sprintf("A %s with id=`%v` does not exist in the database.", entity, id)
}

func notFoundUpdate(entity string, id any) string {
	return fmt.Sprintf("A %s with `id`=%v does not exist in the database. No updates have been made.", entity, id)
}

func notFoundDelete(entity string, id any) string {
	return fmt.Sprintf("A %s with `id`=%v does not exist in the database. No deletions have been made.", entity, id)
}

func deletedMessage(entity string, id any) string {
	return fmt.Sprintf("The %s with id=`%v` has been deleted successfully.", entity, id)
}

func unchangedMessage(entity string) string {
	return fmt.Sprintf("No %s information has been changed.", entity)
}

func changedMessage(entity string, fields []string) string {
	return fmt.Sprintf("The following %s information has been changed: %s.", entity, strings.Join(fields, ", "))
}

// readBody reads a request body capped at maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// decode reads the body and validates it against the named schema.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, name string, mode schema.Mode, dst any) (schema.Present, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	return h.engine.Validator().Decode(name, mode, body, dst)
}

// idParam parses a numeric URL parameter. ok is false when it is not an integer,
// in which case no record can match and the route answers 404.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}

func caller(r *http.Request) *store.User {
	return auth.CallerFromContext(r.Context())
}

func actor(r *http.Request) string {
	if u := caller(r); u != nil {
		return u.Username
	}
	return "anonymous"
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
