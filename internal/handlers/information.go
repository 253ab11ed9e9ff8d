// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wikibase/internal/cache"
	"wikibase/internal/catalog"
	"wikibase/internal/middleware"
)

// Information groups the information record handlers over the catalog
// service. The record cache accelerates the public slug lookup and is
// invalidated on every write.
type Information struct {
	service *catalog.Service
	records *cache.RecordCache // nil when Valkey is unavailable
}

// NewInformation creates a new Information handler group.
func NewInformation(service *catalog.Service, records *cache.RecordCache) *Information {
	return &Information{service: service, records: records}
}

// List returns all live records, newest first.
func (h *Information) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.FindAll(r.Context())
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// ListByCategory returns live records under a live category.
func (h *Information) ListByCategory(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.FindByCategory(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// ListBySubCategory returns live records under a live subcategory.
func (h *Information) ListBySubCategory(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.FindBySubCategory(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recs)
}

// Get returns one live record by identifier.
func (h *Information) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.FindByIdentifier(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// GetBySlug resolves a record by its full three-segment slug. This is
// the public reader path, served from the record cache when warm.
func (h *Information) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slugPath := chi.URLParam(r, "category") + "/" +
		chi.URLParam(r, "subcategory") + "/" +
		chi.URLParam(r, "title")

	if h.records != nil {
		if rec, ok := h.records.Get(r.Context(), slugPath); ok {
			respondJSON(w, http.StatusOK, rec)
			return
		}
	}

	rec, err := h.service.FindBySlug(r.Context(), slugPath)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	if h.records != nil {
		h.records.Set(r.Context(), rec)
	}
	respondJSON(w, http.StatusOK, rec)
}

type createInformationRequest struct {
	CategoryIdentifier    string     `json:"category_identifier"`
	SubCategoryIdentifier string     `json:"sub_category_identifier"`
	Question              string     `json:"question"`
	Content               string     `json:"content"`
	FileIdentifier        *uuid.UUID `json:"file_identifier,omitempty"`
}

// Create adds a new record. Author identity comes from the verified
// token.
func (h *Information) Create(w http.ResponseWriter, r *http.Request) {
	var req createInformationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateQuestion(req.Question); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateContent(req.Content); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	claims := middleware.UserFromCtx(r.Context())
	rec, err := h.service.Create(r.Context(), catalog.CreateParams{
		CategoryIdentifier:    req.CategoryIdentifier,
		SubCategoryIdentifier: req.SubCategoryIdentifier,
		Question:              req.Question,
		Content:               req.Content,
		FileIdentifier:        req.FileIdentifier,
		AuthorID:              claims.UserID,
		AuthorName:            claims.Name,
	})
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	slog.Info("information created", "identifier", rec.Identifier, "slug", rec.Slug)
	respondJSON(w, http.StatusCreated, rec)
}

type updateInformationRequest struct {
	Question              *string    `json:"question,omitempty"`
	Content               *string    `json:"content,omitempty"`
	CategoryIdentifier    *string    `json:"category_identifier,omitempty"`
	SubCategoryIdentifier *string    `json:"sub_category_identifier,omitempty"`
	FileIdentifier        *uuid.UUID `json:"file_identifier,omitempty"`
	ClearFile             bool       `json:"clear_file,omitempty"`
}

// Update applies a partial update. The slug is re-derived when the
// question or taxonomy changes; both old and new slug are evicted from
// the cache.
func (h *Information) Update(w http.ResponseWriter, r *http.Request) {
	var req updateInformationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Question != nil {
		if msg := validateQuestion(*req.Question); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}
	if req.Content != nil {
		if msg := validateContent(*req.Content); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}

	identifier := chi.URLParam(r, "identifier")

	var oldSlug string
	if prev, err := h.service.FindByIdentifier(r.Context(), identifier); err == nil {
		oldSlug = prev.Slug
	}

	rec, err := h.service.Update(r.Context(), identifier, catalog.UpdateParams{
		Question:              req.Question,
		Content:               req.Content,
		CategoryIdentifier:    req.CategoryIdentifier,
		SubCategoryIdentifier: req.SubCategoryIdentifier,
		FileIdentifier:        req.FileIdentifier,
		ClearFile:             req.ClearFile,
	})
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	if h.records != nil {
		h.records.Invalidate(r.Context(), oldSlug, rec.Slug)
	}
	slog.Info("information updated", "identifier", rec.Identifier, "slug", rec.Slug)
	respondJSON(w, http.StatusOK, rec)
}

// Delete soft-deletes a record. The slug frees up for reuse.
func (h *Information) Delete(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	var oldSlug string
	if prev, err := h.service.FindByIdentifier(r.Context(), identifier); err == nil {
		oldSlug = prev.Slug
	}

	ack, err := h.service.SoftDelete(r.Context(), identifier)
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	if h.records != nil {
		h.records.Invalidate(r.Context(), oldSlug)
	}
	slog.Info("information deleted", "identifier", identifier)
	respondJSON(w, http.StatusOK, ack)
}
