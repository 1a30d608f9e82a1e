package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripledger/api/internal/domain"
)

// userIDHeader carries the authenticated user's ID, set by the gateway in
// front of this API. The API itself performs no authentication.
const userIDHeader = "X-User-ID"

var errNoUser = errors.New("missing or malformed " + userIDHeader + " header")

// userIDFrom extracts the acting user's UUID from the request headers.
func userIDFrom(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return uuid.UUID{}, errNoUser
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, errNoUser
	}
	return id, nil
}

// pathUUID parses a UUID URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.UUID{}, errors.New(name + " must be a UUID")
	}
	return id, nil
}

// decodeBody strictly decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("malformed request body: " + err.Error())
	}
	return nil
}

// pagination builds PaginationParams from ?page= and ?limit=.
// Unparsable values fall back to the defaults rather than erroring.
func pagination(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = &v
	}
	return domain.NewPaginationParams(page, limit)
}
