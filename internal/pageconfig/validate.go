// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pageconfig validates page configuration documents against the
// closed section variant model (hero, links, gallery, video). Validation is
// pure: it never touches storage, and it reports every violation it finds
// rather than stopping at the first. A configuration that passes Parse is
// the only value the stores accept for the draft slot.
package pageconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"linkfolio/internal/models"
)

// Structural limits for a page configuration.
const (
	MaxSections   = 20
	MaxHeroSlides = 10

	maxIDLen      = 64
	maxLabelLen   = 120
	maxURILen     = 2048
	maxTitleLen   = 300
	maxMetaLen    = 1000
	maxCaptionLen = 500
)

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Violation is one machine-readable validation failure: the path of the
// offending field and the reason it was rejected.
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ValidationErrors is the full list of violations for a candidate
// configuration. It implements error so stores and handlers can pass it
// through ordinary error returns.
type ValidationErrors []Violation

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "invalid page configuration"
	}
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Path + ": " + v.Reason
	}
	return "invalid page configuration: " + strings.Join(parts, "; ")
}

// Parse decodes a candidate configuration and validates it. On success it
// returns the decoded document; callers persist the re-serialized result,
// never the raw client bytes.
func Parse(raw []byte) (*models.PageConfig, error) {
	var cfg models.PageConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, ValidationErrors{{Path: "$", Reason: "malformed JSON document"}}
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a whole configuration against the variant model. It
// returns nil when the configuration is valid, or a ValidationErrors listing
// every violation (path + reason) so a caller can highlight all offending
// fields at once.
func Validate(cfg *models.PageConfig) error {
	var errs ValidationErrors

	errs = append(errs, validateBackground(&cfg.Background)...)

	if len(cfg.Sections) > MaxSections {
		errs = append(errs, Violation{
			Path:   "sections",
			Reason: fmt.Sprintf("too many sections (%d, max %d)", len(cfg.Sections), MaxSections),
		})
	}

	// Section ids must be unique within the configuration. On a collision
	// the violation names both offending positions.
	seen := map[string]int{}
	for i := range cfg.Sections {
		sec := &cfg.Sections[i]
		path := fmt.Sprintf("sections[%d]", i)

		if sec.ID == "" {
			errs = append(errs, Violation{Path: path + ".id", Reason: "cannot be blank"})
		} else if first, dup := seen[sec.ID]; dup {
			errs = append(errs, Violation{
				Path:   path + ".id",
				Reason: fmt.Sprintf("duplicate of sections[%d].id", first),
			})
		} else {
			seen[sec.ID] = i
		}
		if err := validation.Validate(sec.ID, validation.RuneLength(0, maxIDLen)); err != nil {
			errs = append(errs, Violation{Path: path + ".id", Reason: err.Error()})
		}

		if sec.Order < 0 {
			errs = append(errs, Violation{Path: path + ".order", Reason: "must be no less than 0"})
		}

		errs = append(errs, validateSectionPayload(sec, path)...)
	}

	if cfg.Meta != nil {
		if err := validation.Validate(cfg.Meta.Title, validation.RuneLength(0, maxTitleLen)); err != nil {
			errs = append(errs, Violation{Path: "meta.title", Reason: err.Error()})
		}
		if err := validation.Validate(cfg.Meta.Description, validation.RuneLength(0, maxMetaLen)); err != nil {
			errs = append(errs, Violation{Path: "meta.description", Reason: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateBackground checks the background tagged union: a color carries six
// hex digits, an image carries a non-empty URI.
func validateBackground(b *models.Background) ValidationErrors {
	switch b.Kind {
	case models.BackgroundColor:
		if err := validation.Validate(b.Value, validation.Required, validation.Match(hexColor)); err != nil {
			return ValidationErrors{{Path: "background.value", Reason: "must be six hex digits"}}
		}
	case models.BackgroundImage:
		if err := validation.Validate(b.Value, validation.Required, validation.RuneLength(1, maxURILen)); err != nil {
			return ValidationErrors{{Path: "background.value", Reason: err.Error()}}
		}
	default:
		return ValidationErrors{{Path: "background.kind", Reason: fmt.Sprintf("unknown background kind %q", b.Kind)}}
	}
	return nil
}

// validateSectionPayload dispatches on the discriminator tag. A section whose
// tag matches but whose payload breaks the variant's constraints is rejected,
// never coerced; an unknown tag is rejected outright.
func validateSectionPayload(sec *models.Section, path string) ValidationErrors {
	var errs ValidationErrors

	switch sec.Type {
	case models.SectionHero:
		if len(sec.Items) > 0 {
			errs = append(errs, Violation{Path: path + ".items", Reason: "hero sections carry slides, not items"})
		}
		if len(sec.Slides) > MaxHeroSlides {
			errs = append(errs, Violation{
				Path:   path + ".slides",
				Reason: fmt.Sprintf("too many slides (%d, max %d)", len(sec.Slides), MaxHeroSlides),
			})
		}
		for i, slide := range sec.Slides {
			if err := validation.Validate(slide.Src, validation.Required, validation.RuneLength(1, maxURILen)); err != nil {
				errs = append(errs, Violation{Path: fmt.Sprintf("%s.slides[%d].src", path, i), Reason: err.Error()})
			}
		}

	case models.SectionLinks:
		errs = append(errs, rejectSlides(sec, path)...)
		if err := validation.Validate(sec.Layout, validation.In("", "grid", "list")); err != nil {
			errs = append(errs, Violation{Path: path + ".layout", Reason: `must be "grid" or "list"`})
		}
		items, ok := decodeItems[models.LinkItem](sec.Items, path, &errs)
		if !ok {
			break
		}
		for i, item := range items {
			ipath := fmt.Sprintf("%s.items[%d]", path, i)
			if err := validation.Validate(strings.TrimSpace(item.Label), validation.Required, validation.RuneLength(1, maxLabelLen)); err != nil {
				errs = append(errs, Violation{Path: ipath + ".label", Reason: err.Error()})
			}
			if err := validation.Validate(item.Href, validation.Required, validation.By(absoluteURL)); err != nil {
				errs = append(errs, Violation{Path: ipath + ".href", Reason: err.Error()})
			}
		}

	case models.SectionGallery:
		errs = append(errs, rejectSlides(sec, path)...)
		if err := validation.Validate(sec.Columns, validation.In(0, 2, 3, 4)); err != nil {
			errs = append(errs, Violation{Path: path + ".columns", Reason: "must be 2, 3, or 4"})
		}
		if err := validation.Validate(sec.Gap, validation.In("", "sm", "md", "lg")); err != nil {
			errs = append(errs, Violation{Path: path + ".gap", Reason: `must be "sm", "md", or "lg"`})
		}
		items, ok := decodeItems[models.GalleryItem](sec.Items, path, &errs)
		if !ok {
			break
		}
		for i, item := range items {
			ipath := fmt.Sprintf("%s.items[%d]", path, i)
			if err := validation.Validate(item.Src, validation.Required, validation.RuneLength(1, maxURILen)); err != nil {
				errs = append(errs, Violation{Path: ipath + ".src", Reason: err.Error()})
			}
			if err := validation.Validate(item.Caption, validation.RuneLength(0, maxCaptionLen)); err != nil {
				errs = append(errs, Violation{Path: ipath + ".caption", Reason: err.Error()})
			}
		}

	case models.SectionVideo:
		errs = append(errs, rejectSlides(sec, path)...)
		// An empty item list is valid: the section simply renders as absent.
		items, ok := decodeItems[models.VideoItem](sec.Items, path, &errs)
		if !ok {
			break
		}
		for i, item := range items {
			if err := validation.Validate(item.Src, validation.Required, validation.RuneLength(1, maxURILen)); err != nil {
				errs = append(errs, Violation{Path: fmt.Sprintf("%s.items[%d].src", path, i), Reason: err.Error()})
			}
		}

	default:
		errs = append(errs, Violation{Path: path + ".type", Reason: fmt.Sprintf("unknown section type %q", sec.Type)})
	}

	return errs
}

// rejectSlides flags a slides payload on a non-hero section.
func rejectSlides(sec *models.Section, path string) ValidationErrors {
	if len(sec.Slides) > 0 {
		return ValidationErrors{{Path: path + ".slides", Reason: fmt.Sprintf("%s sections do not carry slides", sec.Type)}}
	}
	return nil
}

// decodeItems decodes a section's raw item list into its variant-specific
// element type. A missing list decodes as empty; a structurally malformed
// one records a violation and reports failure.
func decodeItems[T any](raw json.RawMessage, path string, errs *ValidationErrors) ([]T, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		*errs = append(*errs, Violation{Path: path + ".items", Reason: "malformed item list"})
		return nil, false
	}
	return items, true
}

// absoluteURL is a validation rule requiring an absolute http(s) URL.
func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	return nil
}
