// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkfolio/internal/hero"
	"linkfolio/internal/storage"
	"linkfolio/internal/store"
)

// maxHeroUploadSize caps hero banner image uploads (10 MB).
const maxHeroUploadSize = 10 << 20

// allowedHeroTypes defines MIME types accepted for hero banner uploads.
var allowedHeroTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// HeroAdmin groups the admin-only handlers managing the site-wide banner
// slots. Slides can reference an external URL (JSON body) or an uploaded
// image (multipart body stored in S3).
type HeroAdmin struct {
	heroStore     *store.HeroSlideStore
	storageClient *storage.Client // nil when object storage is not configured
}

// NewHeroAdmin creates a new HeroAdmin handler group.
func NewHeroAdmin(heroStore *store.HeroSlideStore, storageClient *storage.Client) *HeroAdmin {
	return &HeroAdmin{
		heroStore:     heroStore,
		storageClient: storageClient,
	}
}

// slotParam parses and validates the {slot} URL parameter.
func slotParam(r *http.Request) (int, bool) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil || slot < 1 || slot > hero.SlotCount {
		return 0, false
	}
	return slot, true
}

// Upsert replaces the slide in the given slot. A JSON body sets the slide
// from an existing URL; a multipart body uploads the image to object storage
// first. Either way the canonical slide list is returned.
func (h *HeroAdmin) Upsert(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotParam(r)
	if !ok {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("slot must be 1-%d", hero.SlotCount))
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		h.upsertUpload(w, r, slot)
		return
	}

	var req struct {
		Src string `json:"src"`
		Alt string `json:"alt"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Src) == "" {
		jsonError(w, http.StatusUnprocessableEntity, "src is required")
		return
	}

	h.persist(w, r, hero.Slide{Slot: slot, Src: strings.TrimSpace(req.Src), Alt: strings.TrimSpace(req.Alt)})
}

// upsertUpload stores an uploaded image in S3 and points the slot at it.
func (h *HeroAdmin) upsertUpload(w http.ResponseWriter, r *http.Request, slot int) {
	if h.storageClient == nil {
		jsonError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxHeroUploadSize+1024)
	if err := r.ParseMultipartForm(maxHeroUploadSize); err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 10 MB")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, `multipart field "image" is required`)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedHeroTypes[contentType]
	if !ok {
		jsonError(w, http.StatusUnsupportedMediaType, "only JPEG, PNG, and WebP images are accepted")
		return
	}
	// Prefer the original extension when it matches the declared type.
	if orig := strings.ToLower(filepath.Ext(header.Filename)); orig == ext || (orig == ".jpeg" && ext == ".jpg") {
		ext = orig
	}

	key := fmt.Sprintf("hero/%d-%s%s", slot, uuid.New().String(), ext)
	if err := h.storageClient.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("hero image upload failed", "slot", slot, "error", err)
		jsonError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	alt := strings.TrimSpace(r.FormValue("alt"))
	h.persist(w, r, hero.Slide{Slot: slot, Src: h.storageClient.FileURL(key), Alt: alt})
}

// persist writes the slide and responds with the canonical slide list.
func (h *HeroAdmin) persist(w http.ResponseWriter, r *http.Request, slide hero.Slide) {
	slides, err := h.heroStore.Upsert(slide)
	if err != nil {
		slog.Error("hero slide upsert failed", "slot", slide.Slot, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("hero slide updated", "slot", slide.Slot, "src", slide.Src)
	writeJSON(w, http.StatusOK, map[string][]hero.Slide{"slides": slides})
}

// Delete clears the slide in the given slot. The public banner falls back to
// the built-in default for that slot.
func (h *HeroAdmin) Delete(w http.ResponseWriter, r *http.Request) {
	slot, ok := slotParam(r)
	if !ok {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("slot must be 1-%d", hero.SlotCount))
		return
	}

	slides, err := h.heroStore.Delete(slot)
	if err != nil {
		slog.Error("hero slide delete failed", "slot", slot, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("hero slide removed", "slot", slot)
	writeJSON(w, http.StatusOK, map[string][]hero.Slide{"slides": slides})
}
