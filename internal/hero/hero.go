// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hero canonicalizes the site-wide banner slides. The banner has
// exactly three fixed slots; what is persisted may be partial, duplicated,
// or loosely typed (legacy rows stored slot numbers as strings). Normalize
// turns whatever is stored into a canonical slot list and FillDefaults pads
// it for presentation, so the banner never renders with fewer than three
// images. Hero content is decoration: nothing in this package returns an
// error, bad entries are simply dropped.
package hero

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// SlotCount is the fixed number of banner slots.
const SlotCount = 3

// Slide is one banner image occupying a fixed slot (1..3).
type Slide struct {
	Slot int    `json:"slot"`
	Src  string `json:"src"`
	Alt  string `json:"alt,omitempty"`
}

// defaultSlides are the built-in fallbacks shown for slots the site admin
// has not filled yet.
var defaultSlides = [SlotCount]Slide{
	{Slot: 1, Src: "/static/hero/default-1.jpg", Alt: "Welcome"},
	{Slot: 2, Src: "/static/hero/default-2.jpg", Alt: "Create your page"},
	{Slot: 3, Src: "/static/hero/default-3.jpg", Alt: "Share your links"},
}

// Normalize parses raw stored slide data into at most one slide per slot,
// emitted in ascending slot order. An entry is kept only if its slot value
// coerces to exactly 1, 2, or 3 and its src is a non-empty string; alt is
// trimmed and dropped entirely when empty. When two entries claim the same
// slot the later one wins, so stored order is precedence order. Anything
// else — a non-array document, a slot of 0, a numeric src — silently drops
// that entry; Normalize never fails.
func Normalize(raw []byte) []Slide {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	bySlot := map[int]Slide{}
	for _, entry := range entries {
		var loose struct {
			Slot any `json:"slot"`
			Src  any `json:"src"`
			Alt  any `json:"alt"`
		}
		if err := json.Unmarshal(entry, &loose); err != nil {
			continue
		}

		slot, ok := coerceSlot(loose.Slot)
		if !ok {
			continue
		}
		src, ok := loose.Src.(string)
		if !ok || src == "" {
			continue
		}

		slide := Slide{Slot: slot, Src: src}
		if alt, ok := loose.Alt.(string); ok {
			if alt = strings.TrimSpace(alt); alt != "" {
				slide.Alt = alt
			}
		}
		bySlot[slot] = slide
	}

	slides := make([]Slide, 0, len(bySlot))
	for _, s := range bySlot {
		slides = append(slides, s)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Slot < slides[j].Slot })
	return slides
}

// FillDefaults returns exactly one slide per slot, substituting the built-in
// default for any slot missing from the normalized input. This is a
// presentation-time fallback; it is never persisted.
func FillDefaults(slides []Slide) []Slide {
	bySlot := map[int]Slide{}
	for _, s := range slides {
		if s.Slot >= 1 && s.Slot <= SlotCount {
			bySlot[s.Slot] = s
		}
	}

	out := make([]Slide, 0, SlotCount)
	for slot := 1; slot <= SlotCount; slot++ {
		if s, ok := bySlot[slot]; ok {
			out = append(out, s)
		} else {
			out = append(out, defaultSlides[slot-1])
		}
	}
	return out
}

// Marshal serializes a canonical slide list for storage.
func Marshal(slides []Slide) string {
	if slides == nil {
		slides = []Slide{}
	}
	b, err := json.Marshal(slides)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// coerceSlot accepts a slot value stored as a JSON number or a numeric
// string and reports whether it names a valid slot.
func coerceSlot(v any) (int, bool) {
	var slot int
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		slot = int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		slot = parsed
	default:
		return 0, false
	}

	if slot < 1 || slot > SlotCount {
		return 0, false
	}
	return slot, true
}
