// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme derives presentation variables from an owner's accent color.
// The derivation is plain per-channel RGB math, not a perceptual color-space
// adjustment: it is cheap, deterministic, and good enough for hover tints.
package theme

import (
	"encoding/hex"
	"fmt"
)

// Channel deltas for the interaction tints.
const (
	hoverDelta  = 20
	activeDelta = 40
)

// Theme holds the presentation variables derived from an accent color.
type Theme struct {
	Hover      string `json:"hover"`
	Active     string `json:"active"`
	Foreground string `json:"foreground"`
}

// Derive computes hover/active tints (accent brightened by a fixed delta per
// channel, clamped at 255) and a readable foreground (black or white, chosen
// by relative luminance). A value that is not a 7-character "#RRGGBB" string
// is passed through unchanged in all three fields so callers use it as-is
// with no derived variants.
func Derive(accent string) Theme {
	r, g, b, ok := parseHex(accent)
	if !ok {
		return Theme{Hover: accent, Active: accent, Foreground: accent}
	}

	fg := "#ffffff"
	if luminance(r, g, b) > 0.5 {
		fg = "#000000"
	}

	return Theme{
		Hover:      formatHex(brighten(r, hoverDelta), brighten(g, hoverDelta), brighten(b, hoverDelta)),
		Active:     formatHex(brighten(r, activeDelta), brighten(g, activeDelta), brighten(b, activeDelta)),
		Foreground: fg,
	}
}

// parseHex decodes a "#RRGGBB" string into its channels.
func parseHex(s string) (r, g, b int, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	raw, err := hex.DecodeString(s[1:])
	if err != nil {
		return 0, 0, 0, false
	}
	return int(raw[0]), int(raw[1]), int(raw[2]), true
}

func formatHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// brighten raises a channel by delta, clamped to 255.
func brighten(c, delta int) int {
	c += delta
	if c > 255 {
		return 255
	}
	return c
}

// luminance is the normalized relative luminance (ITU-R BT.601 weights).
func luminance(r, g, b int) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}
