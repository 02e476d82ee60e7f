// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"linkfolio/internal/cache"
	"linkfolio/internal/hero"
	"linkfolio/internal/markdown"
	"linkfolio/internal/models"
	"linkfolio/internal/pageconfig"
	"linkfolio/internal/store"
	"linkfolio/internal/theme"
)

// Public groups the anonymous read-side handlers: published pages and the
// site-wide hero banner.
type Public struct {
	userStore *store.UserStore
	pageStore *store.PageStore
	heroStore *store.HeroSlideStore
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(userStore *store.UserStore, pageStore *store.PageStore, heroStore *store.HeroSlideStore, pageCache *cache.PageCache) *Public {
	return &Public{
		userStore: userStore,
		pageStore: pageStore,
		heroStore: heroStore,
		pageCache: pageCache,
	}
}

// Health responds to health check requests.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pagePayload is the assembled public view of one owner's page. This is the
// document cached in Valkey and returned to anonymous visitors.
type pagePayload struct {
	Slug        string             `json:"slug"`
	DisplayName string             `json:"display_name"`
	BioHTML     string             `json:"bio_html,omitempty"`
	Config      *models.PageConfig `json:"config"`
	ThemeColor  string             `json:"theme_color"`
	Theme       theme.Theme        `json:"theme"`
	FontFamily  string             `json:"font_family"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
}

// PageBySlug serves the published page for the owner with the given slug.
// Owners who exist but have never published get the default configuration
// rather than a 404: the page is reachable, just empty. Responses are cached
// by slug; publish, theme, font, and profile changes invalidate the entry.
func (p *Public) PageBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if payload, ok := p.pageCache.Get(r.Context(), slug); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Write(payload)
		return
	}

	user, err := p.userStore.FindBySlug(slug)
	if err != nil {
		slog.Error("page lookup failed", "slug", slug, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "page not found")
		return
	}

	page, err := p.pageStore.FindByOwner(user.ID)
	if err != nil {
		slog.Error("page lookup failed", "slug", slug, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// The published slot is the only thing visitors ever see. An unpublished
	// draft stays invisible no matter how recently it was saved.
	cfg := models.DefaultPageConfig(user.DisplayName)
	themeColor := "#6366f1"
	fontFamily := "Inter"
	var publishedAt *time.Time
	if page != nil {
		themeColor = page.ThemeColor
		fontFamily = page.FontFamily
		publishedAt = page.PublishedAt
		if page.HasPublished() {
			parsed, err := pageconfig.Parse(page.PublishedConfig)
			if err != nil {
				slog.Error("stored published config invalid", "slug", slug, "error", err)
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			cfg = parsed
		}
	}

	bioHTML := ""
	if user.Bio != "" {
		bioHTML, err = markdown.Render(user.Bio)
		if err != nil {
			slog.Error("render bio failed", "slug", slug, "error", err)
			bioHTML = ""
		}
	}

	payload := pagePayload{
		Slug:        user.Slug,
		DisplayName: user.DisplayName,
		BioHTML:     bioHTML,
		Config:      pageconfig.ForRender(cfg),
		ThemeColor:  themeColor,
		Theme:       theme.Derive(themeColor),
		FontFamily:  fontFamily,
		PublishedAt: publishedAt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal page payload", "slug", slug, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	p.pageCache.Set(r.Context(), slug, body)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

// HeroList serves the site-wide banner: always exactly three slides, with
// built-in defaults substituted for unfilled slots.
func (p *Public) HeroList(w http.ResponseWriter, r *http.Request) {
	slides, err := p.heroStore.Current()
	if err != nil {
		slog.Error("hero slides read failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]hero.Slide{
		"slides": hero.FillDefaults(slides),
	})
}
