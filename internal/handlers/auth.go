// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"linkfolio/internal/middleware"
	"linkfolio/internal/models"
	"linkfolio/internal/session"
	"linkfolio/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "Linkfolio"

// slugPattern constrains public page slugs: lowercase alphanumerics and
// hyphens, 3-30 characters. Slugs become URL path segments, so the charset
// is deliberately narrow.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

const minPasswordLen = 8

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
	pageStore *store.PageStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore, pageStore *store.PageStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
		pageStore: pageStore,
	}
}

// Register creates a new page owner and their page record, then starts a
// session. The new session still has to pass 2FA setup before it can manage
// the page.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Slug        string `json:"slug"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		jsonError(w, http.StatusUnprocessableEntity, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLen {
		jsonError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = email
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		jsonError(w, http.StatusUnprocessableEntity, "slug must be 3-30 lowercase letters, digits, or hyphens")
		return
	}

	if existing, err := a.userStore.FindByEmail(email); err != nil {
		slog.Error("register email lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		jsonError(w, http.StatusConflict, "email already registered")
		return
	}
	if existing, err := a.userStore.FindBySlug(slug); err != nil {
		slog.Error("register slug lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	} else if existing != nil {
		jsonError(w, http.StatusConflict, "slug already taken")
		return
	}

	user, err := a.userStore.Create(email, req.Password, displayName, slug, models.RoleOwner)
	if err != nil {
		slog.Error("register create failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Eager provisioning: every owner gets a page row up front so the public
	// URL resolves immediately.
	if err := a.pageStore.Ensure(user.ID); err != nil {
		slog.Error("register ensure page failed", "user_id", user.ID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Slug:        user.Slug,
		Role:        string(user.Role),
		TwoFADone:   false,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("owner registered", "user_id", user.ID, "slug", user.Slug)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":      user,
		"next_step": "2fa_setup",
	})
}

// Login validates credentials and starts a session. TwoFADone starts false;
// the client is told whether the user still has to enroll or just verify.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		jsonError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Slug:        user.Slug,
		Role:        string(user.Role),
		TwoFADone:   false,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	nextStep := "2fa_verify"
	if user.Needs2FASetup() {
		nextStep = "2fa_setup"
	}
	writeJSON(w, http.StatusOK, map[string]string{"next_step": nextStep})
}

// TwoFASetup generates a TOTP secret for the logged-in user and returns the
// otpauth QR code as a base64 PNG. Re-running setup rotates the secret until
// the first successful verification.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_png":  base64.StdEncoding.EncodeToString(qrPNG),
		"otpauth": key.URL(),
	})
}

// TwoFAVerify validates a TOTP code and completes authentication for this
// session. On first-time setup a valid code also enables 2FA permanently.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user.TOTPSecret == nil {
		jsonError(w, http.StatusConflict, "2FA setup has not been started")
		return
	}

	if !totp.Validate(strings.TrimSpace(req.Code), *user.TOTPSecret) {
		jsonError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
