// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// hero_slide.go persists the site-wide banner slides. The whole slide set
// lives under one well-known site_settings key as a JSON array, so it is a
// single shared row: concurrent writers race at last-write-wins granularity,
// which is accepted for decorative content.
package store

import (
	"fmt"

	"linkfolio/internal/hero"
)

// heroSlidesKey is the site_settings key holding the banner slide document.
const heroSlidesKey = "hero_slides"

// HeroSlideStore manages the singleton hero banner document. Every write
// stores the canonical normalized form, so stored order is precedence order
// and re-reading is deterministic.
type HeroSlideStore struct {
	settings *SiteSettingStore
}

// NewHeroSlideStore returns a HeroSlideStore backed by the site settings table.
func NewHeroSlideStore(settings *SiteSettingStore) *HeroSlideStore {
	return &HeroSlideStore{settings: settings}
}

// Current returns the canonical slide list (at most one slide per slot, in
// ascending slot order). Missing or malformed stored data yields an empty
// list, never an error from normalization.
func (s *HeroSlideStore) Current() ([]hero.Slide, error) {
	raw, err := s.settings.Get(heroSlidesKey, "[]")
	if err != nil {
		return nil, fmt.Errorf("read hero slides: %w", err)
	}
	return hero.Normalize([]byte(raw)), nil
}

// Upsert replaces the slide in the given slot and persists the re-derived
// canonical list, which it also returns.
func (s *HeroSlideStore) Upsert(slide hero.Slide) ([]hero.Slide, error) {
	current, err := s.Current()
	if err != nil {
		return nil, err
	}

	// Appending after the stored entries makes the new slide the
	// last-seen entry for its slot, so normalization keeps it.
	next := hero.Normalize([]byte(hero.Marshal(append(current, slide))))

	if err := s.settings.Set(heroSlidesKey, hero.Marshal(next)); err != nil {
		return nil, fmt.Errorf("store hero slides: %w", err)
	}
	return next, nil
}

// Delete removes the slide in the given slot, if present, and persists the
// remaining canonical list, which it also returns.
func (s *HeroSlideStore) Delete(slot int) ([]hero.Slide, error) {
	current, err := s.Current()
	if err != nil {
		return nil, err
	}

	next := make([]hero.Slide, 0, len(current))
	for _, slide := range current {
		if slide.Slot != slot {
			next = append(next, slide)
		}
	}

	if err := s.settings.Set(heroSlidesKey, hero.Marshal(next)); err != nil {
		return nil, fmt.Errorf("store hero slides: %w", err)
	}
	return next, nil
}
