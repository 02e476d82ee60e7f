// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"linkfolio/internal/cache"
	"linkfolio/internal/middleware"
	"linkfolio/internal/pageconfig"
	"linkfolio/internal/store"
)

// accentColor matches the "#RRGGBB" accent format stored on a page.
var accentColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const (
	maxDisplayNameLen = 100
	maxBioLen         = 4000
	maxFontLen        = 80
)

// Owner groups the authenticated page-management handlers. Every handler
// here runs behind RequireAuth and Require2FA, so the session is never nil.
type Owner struct {
	userStore *store.UserStore
	pageStore *store.PageStore
	pageCache *cache.PageCache
}

// NewOwner creates a new Owner handler group.
func NewOwner(userStore *store.UserStore, pageStore *store.PageStore, pageCache *cache.PageCache) *Owner {
	return &Owner{
		userStore: userStore,
		pageStore: pageStore,
		pageCache: pageCache,
	}
}

// GetPage returns the owner's full page record: both slots, theme, and font.
// Owners see their own draft here; nobody else ever does.
func (o *Owner) GetPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	page, err := o.pageStore.FindByOwner(sess.UserID)
	if err != nil {
		slog.Error("owner page lookup failed", "user_id", sess.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if page == nil {
		jsonError(w, http.StatusNotFound, "no page record")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// SaveDraft validates a candidate configuration and, only if it is fully
// valid, overwrites the draft slot. An invalid document changes nothing and
// returns the complete violation list. The published slot is never touched.
func (o *Owner) SaveDraft(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	cfg, err := pageconfig.Parse(raw)
	if err != nil {
		var verrs pageconfig.ValidationErrors
		if errors.As(err, &verrs) {
			jsonViolations(w, verrs)
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid request")
		return
	}

	// Lazy provisioning: an owner created before pages were provisioned
	// eagerly gets a row on first save.
	if err := o.pageStore.Ensure(sess.UserID); err != nil {
		slog.Error("ensure page failed", "user_id", sess.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := o.pageStore.SaveDraft(sess.UserID, cfg); err != nil {
		slog.Error("save draft failed", "user_id", sess.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "draft saved"})
}

// Publish promotes the owner's current draft to the published slot. The
// stored draft is re-validated inside the store; failure leaves the published
// slot untouched. Publishing twice in a row is a harmless no-op that just
// refreshes the publish timestamp.
func (o *Owner) Publish(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	published, err := o.pageStore.Publish(sess.UserID)
	if err != nil {
		var verrs pageconfig.ValidationErrors
		switch {
		case errors.Is(err, store.ErrNotFound):
			jsonError(w, http.StatusNotFound, "no page record")
		case errors.Is(err, store.ErrNoDraft):
			jsonError(w, http.StatusConflict, "nothing to publish: no draft saved")
		case errors.As(err, &verrs):
			jsonViolations(w, verrs)
		default:
			slog.Error("publish failed", "user_id", sess.UserID, "error", err)
			jsonError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	o.pageCache.Invalidate(r.Context(), sess.Slug)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"published","config":`))
	w.Write(published)
	w.Write([]byte(`}`))
}

// SetTheme stores the owner's accent color. The accent must be "#RRGGBB";
// derived hover/active/foreground variables are computed at read time, never
// stored.
func (o *Owner) SetTheme(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Color string `json:"color"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !accentColor.MatchString(req.Color) {
		jsonError(w, http.StatusUnprocessableEntity, `color must be "#RRGGBB"`)
		return
	}

	if err := o.pageStore.SetTheme(sess.UserID, strings.ToLower(req.Color)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "no page record")
			return
		}
		slog.Error("set theme failed", "user_id", sess.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	o.pageCache.Invalidate(r.Context(), sess.Slug)
	writeJSON(w, http.StatusOK, map[string]string{"status": "theme updated"})
}

// SetFont stores the owner's font choice.
func (o *Owner) SetFont(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		Font string `json:"font"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	font := strings.TrimSpace(req.Font)
	if font == "" || len(font) > maxFontLen {
		jsonError(w, http.StatusUnprocessableEntity, "font must be a non-empty name")
		return
	}

	if err := o.pageStore.SetFont(sess.UserID, font); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "no page record")
			return
		}
		slog.Error("set font failed", "user_id", sess.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	o.pageCache.Invalidate(r.Context(), sess.Slug)
	writeJSON(w, http.StatusOK, map[string]string{"status": "font updated"})
}

// UpdateProfile changes the owner's display name and Markdown bio. The bio is
// stored as source; rendering and sanitization happen on the public read.
func (o *Owner) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" || len(displayName) > maxDisplayNameLen {
		jsonError(w, http.StatusUnprocessableEntity, "display name must be 1-100 characters")
		return
	}
	if len(req.Bio) > maxBioLen {
		jsonError(w, http.StatusUnprocessableEntity, "bio too long")
		return
	}

	if err := o.userStore.UpdateProfile(sess.UserID, displayName, req.Bio); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("update profile failed", "user_id", sess.UserID, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	o.pageCache.Invalidate(r.Context(), sess.Slug)
	writeJSON(w, http.StatusOK, map[string]string{"status": "profile updated"})
}
