// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"linkfolio/internal/models"
	"linkfolio/internal/pageconfig"
)

// PageStore owns the draft/publish lifecycle for page configurations. Each
// owner has one row with two slots: the editable draft and the published
// configuration visible to the public. Draft saves and publishes are single
// row updates, so the database's per-row atomicity guarantees there is never
// a half-written slot.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

// pageColumns lists the columns selected in page queries.
const pageColumns = `owner_id, draft_config, published_config, theme_color, font_family, updated_at, published_at`

// scanPage scans a page row from the result set.
func scanPage(scanner interface{ Scan(...any) error }) (*models.Page, error) {
	var (
		p         models.Page
		draft     []byte
		published []byte
	)
	err := scanner.Scan(&p.OwnerID, &draft, &published, &p.ThemeColor, &p.FontFamily, &p.UpdatedAt, &p.PublishedAt)
	if err != nil {
		return nil, err
	}
	p.DraftConfig = json.RawMessage(draft)
	p.PublishedConfig = json.RawMessage(published)
	return &p, nil
}

// Ensure creates the owner's page record if none exists. It is idempotent:
// calling it when a page already exists is a no-op, never an error. Both
// eager provisioning at registration and lazy provisioning on first save go
// through here.
func (s *PageStore) Ensure(ownerID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO pages (owner_id)
		VALUES ($1)
		ON CONFLICT (owner_id) DO NOTHING
	`, ownerID)
	if err != nil {
		return fmt.Errorf("ensure page: %w", err)
	}
	return nil
}

// FindByOwner retrieves an owner's page record. Returns nil if the owner has
// no page yet.
func (s *PageStore) FindByOwner(ownerID uuid.UUID) (*models.Page, error) {
	row := s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE owner_id = $1`, ownerID)
	p, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by owner: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves the page record for the owner with the given public
// slug. Returns nil if no such owner or page exists. Used for anonymous
// reads; the published slot may still be empty.
func (s *PageStore) FindBySlug(slug string) (*models.Page, error) {
	row := s.db.QueryRow(`
		SELECT p.owner_id, p.draft_config, p.published_config, p.theme_color,
		       p.font_family, p.updated_at, p.published_at
		FROM pages p
		JOIN users u ON u.id = p.owner_id
		WHERE u.slug = $1
	`, slug)
	p, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// SaveDraft overwrites the draft slot with an already-validated
// configuration and bumps the last-modified timestamp. The published slot is
// untouched. Callers must only pass configurations that came out of
// pageconfig.Parse; raw client input never reaches this method. Returns
// ErrNotFound if the owner has no page record.
func (s *PageStore) SaveDraft(ownerID uuid.UUID, cfg *models.PageConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal draft config: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE pages SET draft_config = $2::jsonb, updated_at = NOW()
		WHERE owner_id = $1
	`, ownerID, raw)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Publish copies the owner's current draft verbatim into the published slot.
// The stored draft is re-validated first, guarding against schema drift
// between save time and publish time. The read and the copy happen in one
// transaction with the row locked, so a concurrent save cannot produce a
// mixed document. Returns ErrNotFound if the owner has no page record,
// ErrNoDraft if there is nothing to promote, or the validator's
// ValidationErrors if the stored draft no longer validates — in every
// failure case the published slot is left untouched.
func (s *PageStore) Publish(ownerID uuid.UUID) (json.RawMessage, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("publish begin tx: %w", err)
	}
	defer tx.Rollback()

	var draft []byte
	err = tx.QueryRow(`
		SELECT draft_config FROM pages WHERE owner_id = $1 FOR UPDATE
	`, ownerID).Scan(&draft)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("publish read draft: %w", err)
	}
	if len(draft) == 0 {
		return nil, ErrNoDraft
	}

	if _, err := pageconfig.Parse(draft); err != nil {
		return nil, err
	}

	// The copy references the stored column, not the Go value, so the
	// published slot receives the draft byte-for-byte.
	if _, err := tx.Exec(`
		UPDATE pages SET published_config = draft_config, published_at = NOW(), updated_at = NOW()
		WHERE owner_id = $1
	`, ownerID); err != nil {
		return nil, fmt.Errorf("publish copy draft: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("publish commit: %w", err)
	}
	return json.RawMessage(draft), nil
}

// SetTheme stores the owner's accent color. Returns ErrNotFound if the owner
// has no page record.
func (s *PageStore) SetTheme(ownerID uuid.UUID, color string) error {
	result, err := s.db.Exec(`
		UPDATE pages SET theme_color = $2, updated_at = NOW() WHERE owner_id = $1
	`, ownerID, color)
	if err != nil {
		return fmt.Errorf("set theme color: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFont stores the owner's font choice. Returns ErrNotFound if the owner
// has no page record.
func (s *PageStore) SetFont(ownerID uuid.UUID, font string) error {
	result, err := s.db.Exec(`
		UPDATE pages SET font_family = $2, updated_at = NOW() WHERE owner_id = $1
	`, ownerID, font)
	if err != nil {
		return fmt.Errorf("set font family: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
