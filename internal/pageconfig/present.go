// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pageconfig

import (
	"encoding/json"

	"linkfolio/internal/models"
)

// ForRender prepares a stored configuration for public consumption: sections
// are sorted by their order field (stable, so equal orders keep their stored
// relative position), disabled sections are dropped, and video sections with
// no items are dropped because they render as absent. The input is not
// mutated.
func ForRender(cfg *models.PageConfig) *models.PageConfig {
	out := &models.PageConfig{
		Background: cfg.Background,
		Meta:       cfg.Meta,
		Sections:   make([]models.Section, 0, len(cfg.Sections)),
	}

	for _, sec := range cfg.Sections {
		if !sec.Enabled {
			continue
		}
		if sec.Type == models.SectionVideo && emptyItemList(sec.Items) {
			continue
		}
		out.Sections = append(out.Sections, sec)
	}

	out.SortSections()
	return out
}

// emptyItemList reports whether a raw item list is missing or decodes to
// zero entries. Malformed lists count as empty here; they cannot occur on
// validated configurations.
func emptyItemList(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return true
	}
	return len(items) == 0
}
