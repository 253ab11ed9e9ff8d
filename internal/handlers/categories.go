// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wikibase/internal/catalog"
	"wikibase/internal/store"
)

// Categories groups taxonomy management handlers. Deletion goes
// through the catalog guard so the cascade onto subcategories stays
// atomic.
type Categories struct {
	categoryStore *store.CategoryStore
	guard         *catalog.Guard
}

// NewCategories creates a new Categories handler group.
func NewCategories(categoryStore *store.CategoryStore, guard *catalog.Guard) *Categories {
	return &Categories{categoryStore: categoryStore, guard: guard}
}

// List returns all live categories with their live subcategories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categoryStore.List(r.Context())
	if err != nil {
		slog.Error("list categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// Get returns one live category with its subcategories.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.categoryStore.FindWithSubCategories(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		slog.Error("find category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if cat == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

type createCategoryRequest struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"sub_categories,omitempty"`
}

// Create adds a category, optionally with initial subcategories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	for _, sub := range req.SubCategories {
		if msg := validateName(sub); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}

	cat, err := h.categoryStore.Create(r.Context(), req.Name, req.SubCategories)
	if err != nil {
		slog.Error("create category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("category created", "identifier", cat.Identifier, "name", cat.Name)
	respondJSON(w, http.StatusCreated, cat)
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename changes a category's display name. Slugs of existing records
// are not re-derived.
func (h *Categories) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	identifier := chi.URLParam(r, "identifier")
	ok, err := h.categoryStore.Rename(r.Context(), identifier, req.Name)
	if err != nil {
		slog.Error("rename category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	cat, err := h.categoryStore.FindWithSubCategories(r.Context(), identifier)
	if err != nil || cat == nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

// Delete soft-deletes a category and cascades onto its subcategories.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if err := h.guard.CascadeDeleteCategory(r.Context(), identifier); err != nil {
		respondCatalogError(w, err)
		return
	}

	slog.Info("category deleted", "identifier", identifier)
	respondJSON(w, http.StatusOK, map[string]string{
		"identifier": identifier,
		"message":    "category deleted",
	})
}

type createSubCategoryRequest struct {
	Name string `json:"name"`
}

// CreateSubCategory adds a subcategory under a live category.
func (h *Categories) CreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var req createSubCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	identifier := chi.URLParam(r, "identifier")
	if _, err := h.guard.ResolveCategory(r.Context(), identifier); err != nil {
		respondCatalogError(w, err)
		return
	}

	sub, err := h.categoryStore.CreateSubCategory(r.Context(), req.Name, identifier)
	if err != nil {
		slog.Error("create subcategory failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("subcategory created", "identifier", sub.Identifier, "category", identifier)
	respondJSON(w, http.StatusCreated, sub)
}

// DeleteSubCategory soft-deletes a single subcategory.
func (h *Categories) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "subIdentifier")
	ok, err := h.categoryStore.SoftDeleteSubCategory(r.Context(), identifier)
	if err != nil {
		slog.Error("delete subcategory failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"identifier": identifier,
		"message":    "subcategory deleted",
	})
}
