// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"wikibase/internal/auth"
	"wikibase/internal/middleware"
	"wikibase/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "Wikibase"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	tokens    *auth.TokenManager
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(tokens *auth.TokenManager, userStore *store.UserStore) *Auth {
	return &Auth{tokens: tokens, userStore: userStore}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

type loginResponse struct {
	Token       string `json:"token"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Login validates credentials and issues a bearer token. Users with
// TOTP enabled must also supply a valid code; the response does not
// reveal which of the three factors failed.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(req.Code, *user.TOTPSecret) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user logged in", "email", user.Email)
	respondJSON(w, http.StatusOK, loginResponse{
		Token:       token,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	})
}

type totpSetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"` // base64-encoded PNG
}

// TOTPSetup generates a provisional TOTP secret for the authenticated
// user and returns it with a QR code for authenticator apps. The
// second factor is not enforced until TOTPConfirm sees a valid code.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: claims.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := a.userStore.SetTOTPSecret(r.Context(), claims.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, totpSetupResponse{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type totpConfirmRequest struct {
	Code string `json:"code"`
}

// TOTPConfirm validates the first code against the provisional secret
// and turns the second factor on.
func (a *Auth) TOTPConfirm(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFromCtx(r.Context())

	var req totpConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for totp failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user.TOTPSecret == nil {
		respondError(w, http.StatusBadRequest, "totp setup has not been started")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		respondError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if err := a.userStore.EnableTOTP(r.Context(), user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("totp enabled", "email", user.Email)
	respondJSON(w, http.StatusOK, map[string]string{"status": "enabled"})
}

// Profile returns the identity carried by the presented token.
func (a *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.UserFromCtx(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{
		"user_id": claims.UserID.String(),
		"email":   claims.Email,
		"name":    claims.Name,
		"role":    string(claims.Role),
	})
}
