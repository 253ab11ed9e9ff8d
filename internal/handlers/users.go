// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wikibase/internal/middleware"
	"wikibase/internal/models"
	"wikibase/internal/store"
)

// Users groups admin-only user management handlers.
type Users struct {
	userStore *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(userStore *store.UserStore) *Users {
	return &Users{userStore: userStore}
}

// List returns all users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Create adds a new user account.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateCredentials(req.Email, req.Password); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	role := models.Role(req.Role)
	if role != models.RoleAdmin && role != models.RoleEditor {
		respondError(w, http.StatusBadRequest, "role must be admin or editor")
		return
	}

	existing, err := h.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "email already in use")
		return
	}

	user, err := h.userStore.Create(r.Context(), req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		slog.Error("create user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user created", "email", user.Email, "role", user.Role)
	respondJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Update changes a user's display name and role.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	role := models.Role(req.Role)
	if role != models.RoleAdmin && role != models.RoleEditor {
		respondError(w, http.StatusBadRequest, "role must be admin or editor")
		return
	}
	if msg := validateName(req.DisplayName); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := h.userStore.UpdateProfile(r.Context(), id, req.DisplayName, role)
	if err != nil {
		slog.Error("update user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Delete removes a user account. Admins cannot delete themselves.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims := middleware.UserFromCtx(r.Context())
	if claims.UserID == id {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.userStore.Delete(r.Context(), id); err != nil {
		slog.Error("delete user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
