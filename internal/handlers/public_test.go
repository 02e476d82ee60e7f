// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"linkfolio/internal/hero"
)

func getPage(t *testing.T, env *testEnv, slug string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/pages/"+slug, nil)
	req = withChiURLParam(req, "slug", slug)
	rec := httptest.NewRecorder()
	env.Public.PageBySlug(rec, req)
	return rec
}

func TestPageBySlugUnknown(t *testing.T) {
	env := newTestEnv(t)

	rec := getPage(t, env, "totally-unknown-slug")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPageBySlugNeverPublished(t *testing.T) {
	env := newTestEnv(t)
	env.newTestOwner(t, "pub-default@test.local", "pub-default")

	rec := getPage(t, env, "pub-default")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var payload pagePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Config == nil {
		t.Fatal("payload has no config")
	}
	if len(payload.Config.Sections) != 0 {
		t.Errorf("default config should have no sections, got %d", len(payload.Config.Sections))
	}
	if payload.Config.Background.Value != "ffffff" {
		t.Errorf("default background = %q, want ffffff", payload.Config.Background.Value)
	}
	if payload.PublishedAt != nil {
		t.Error("never-published page should have no publish timestamp")
	}
}

func TestPageBySlugPublished(t *testing.T) {
	env := newTestEnv(t)
	user := env.newTestOwner(t, "pub-full@test.local", "pub-full")

	// Draft with one disabled section, one empty video section, and sections
	// out of order; only the visible ones survive rendering.
	draft := `{
		"background": {"kind": "color", "value": "101010"},
		"sections": [
			{"id": "late", "type": "links", "enabled": true, "order": 5,
			 "items": [{"id": "l1", "label": "Blog", "href": "https://example.com"}]},
			{"id": "hidden", "type": "links", "enabled": false, "order": 0},
			{"id": "no-clips", "type": "video", "enabled": true, "order": 1, "items": []},
			{"id": "early", "type": "hero", "enabled": true, "order": 2,
			 "slides": [{"src": "/img/x.jpg"}]}
		]
	}`

	req := httptest.NewRequest(http.MethodPut, "/api/me/page/draft", strings.NewReader(draft))
	req = withSession(req, sessionFor(user))
	rec := httptest.NewRecorder()
	env.Owner.SaveDraft(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("SaveDraft status = %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/me/page/publish", nil)
	req = withSession(req, sessionFor(user))
	rec = httptest.NewRecorder()
	env.Owner.Publish(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Publish status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = getPage(t, env, "pub-full")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var payload pagePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Config.Sections) != 2 {
		t.Fatalf("rendered sections = %+v, want [early late]", payload.Config.Sections)
	}
	if payload.Config.Sections[0].ID != "early" || payload.Config.Sections[1].ID != "late" {
		t.Errorf("render order = [%s %s], want [early late]",
			payload.Config.Sections[0].ID, payload.Config.Sections[1].ID)
	}
	if payload.Theme.Foreground == "" {
		t.Error("payload missing derived theme")
	}
	if payload.PublishedAt == nil {
		t.Error("published page should carry its publish timestamp")
	}
}

func TestPageBySlugCached(t *testing.T) {
	env := newTestEnv(t)
	env.newTestOwner(t, "pub-cache@test.local", "pub-cache")
	env.PageCache.Invalidate(context.Background(), "pub-cache")

	first := getPage(t, env, "pub-cache")
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first request X-Cache = %q, want MISS", got)
	}

	second := getPage(t, env, "pub-cache")
	if second.Code != http.StatusOK {
		t.Fatalf("second request status = %d", second.Code)
	}
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second request X-Cache = %q, want HIT", got)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached payload differs from assembled payload")
	}
}

func TestPageBySlugBioSanitized(t *testing.T) {
	env := newTestEnv(t)
	user := env.newTestOwner(t, "pub-bio@test.local", "pub-bio")

	if err := env.UserStore.UpdateProfile(user.ID, "Bio Owner", "Hello *world* <script>alert(1)</script>"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	env.PageCache.Invalidate(context.Background(), "pub-bio")

	rec := getPage(t, env, "pub-bio")
	var payload pagePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !strings.Contains(payload.BioHTML, "<em>world</em>") {
		t.Errorf("bio HTML = %q, want rendered emphasis", payload.BioHTML)
	}
	if strings.Contains(payload.BioHTML, "<script") {
		t.Errorf("bio HTML = %q, script must be stripped", payload.BioHTML)
	}
}

func TestHeroListDefaults(t *testing.T) {
	env := newTestEnv(t)
	env.DB.Exec("DELETE FROM site_settings WHERE key = 'hero_slides'")
	t.Cleanup(func() { env.DB.Exec("DELETE FROM site_settings WHERE key = 'hero_slides'") })

	req := httptest.NewRequest(http.MethodGet, "/api/hero", nil)
	rec := httptest.NewRecorder()
	env.Public.HeroList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Slides []hero.Slide `json:"slides"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Slides) != hero.SlotCount {
		t.Fatalf("slides = %d, want %d", len(resp.Slides), hero.SlotCount)
	}
	for i, s := range resp.Slides {
		if s.Slot != i+1 {
			t.Errorf("slide %d slot = %d, want %d", i, s.Slot, i+1)
		}
		if s.Src == "" {
			t.Errorf("slide %d has empty src", i)
		}
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.Public.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q, want status ok", rec.Body.String())
	}
}
