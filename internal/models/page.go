// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Page is the per-owner record holding both configuration slots. DraftConfig
// is what the owner edits; PublishedConfig is what anonymous visitors see.
// PublishedConfig only ever changes through an explicit publish, which copies
// the draft verbatim.
type Page struct {
	OwnerID         uuid.UUID       `json:"owner_id"`
	DraftConfig     json.RawMessage `json:"draft_config,omitempty"`
	PublishedConfig json.RawMessage `json:"published_config,omitempty"`
	ThemeColor      string          `json:"theme_color"`
	FontFamily      string          `json:"font_family"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PublishedAt     *time.Time      `json:"published_at,omitempty"`
}

// HasDraft reports whether the owner has saved a draft configuration.
func (p *Page) HasDraft() bool {
	return len(p.DraftConfig) > 0
}

// HasPublished reports whether the page has ever been published.
func (p *Page) HasPublished() bool {
	return len(p.PublishedConfig) > 0
}

// BackgroundKind discriminates the page background union.
type BackgroundKind string

const (
	BackgroundColor BackgroundKind = "color"
	BackgroundImage BackgroundKind = "image"
)

// Background is a tagged union: a solid color (six hex digits, no "#") or an
// image URI.
type Background struct {
	Kind  BackgroundKind `json:"kind"`
	Value string         `json:"value"`
}

// PageMeta carries optional presentation metadata for a page.
type PageMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// SectionType discriminates the closed set of content block variants.
type SectionType string

const (
	SectionHero    SectionType = "hero"
	SectionLinks   SectionType = "links"
	SectionGallery SectionType = "gallery"
	SectionVideo   SectionType = "video"
)

// Section is one typed content block within a page configuration. The
// payload fields are variant-specific: Slides belongs to hero sections,
// Items holds the per-variant item list for links, gallery, and video
// sections and is kept raw here because its element shape depends on Type.
// Order is the authoritative sort key; array position only breaks ties.
type Section struct {
	ID      string      `json:"id"`
	Type    SectionType `json:"type"`
	Enabled bool        `json:"enabled"`
	Order   int         `json:"order"`

	Slides  []SectionSlide  `json:"slides,omitempty"`
	Items   json.RawMessage `json:"items,omitempty"`
	Layout  string          `json:"layout,omitempty"`
	Columns int             `json:"columns,omitempty"`
	Gap     string          `json:"gap,omitempty"`
}

// SectionSlide is one image in a hero section's carousel. Unrelated to the
// site-wide hero banner slots.
type SectionSlide struct {
	Src  string `json:"src"`
	Alt  string `json:"alt,omitempty"`
	Href string `json:"href,omitempty"`
}

// LinkItem is one entry in a links section.
type LinkItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Href  string `json:"href"`
	Icon  string `json:"icon,omitempty"`
}

// GalleryItem is one image in a gallery section.
type GalleryItem struct {
	ID      string `json:"id"`
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
	Href    string `json:"href,omitempty"`
}

// VideoItem is one video reference in a video section.
type VideoItem struct {
	ID    string `json:"id"`
	Src   string `json:"src"`
	Title string `json:"title,omitempty"`
}

// PageConfig is the full configuration document stored in the draft and
// published slots.
type PageConfig struct {
	Background Background `json:"background"`
	Sections   []Section  `json:"sections"`
	Meta       *PageMeta  `json:"meta,omitempty"`
}

// SortSections orders the sections by their Order field. The sort is stable,
// so sections sharing an Order value keep their original relative order and
// the result is deterministic for any input.
func (c *PageConfig) SortSections() {
	sort.SliceStable(c.Sections, func(i, j int) bool {
		return c.Sections[i].Order < c.Sections[j].Order
	})
}

// DefaultPageConfig returns the configuration served for owners who have
// never published: a plain white page with no sections.
func DefaultPageConfig(title string) *PageConfig {
	return &PageConfig{
		Background: Background{Kind: BackgroundColor, Value: "ffffff"},
		Sections:   []Section{},
		Meta:       &PageMeta{Title: title},
	}
}
