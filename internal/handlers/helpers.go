// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API surface of wikibase. Each
// handler group wraps its stores and the catalog service; catalog
// sentinel errors are translated to HTTP status codes in one place.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wikibase/internal/catalog"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// respondCatalogError maps catalog sentinel errors to HTTP statuses.
// Membership mismatches share the 404 class with plain not-found so
// responses cannot be used to probe the taxonomy structure.
func respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrConflict):
		respondError(w, http.StatusConflict, "slug conflict, retry the request")
	case errors.Is(err, catalog.ErrPreconditionFailed):
		respondError(w, http.StatusPreconditionFailed, "record changed concurrently")
	case errors.Is(err, catalog.ErrTimeout):
		respondError(w, http.StatusGatewayTimeout, "storage timeout")
	default:
		slog.Error("unhandled catalog error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses a request body into dst. Returns false after
// writing a 400 response when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
