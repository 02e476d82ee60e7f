package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// demoConfig is the published configuration of the seeded demo page. It
// exercises every section variant so a fresh checkout has something to look at.
const demoConfig = `{
  "background": {"kind": "color", "value": "f4f4f5"},
  "sections": [
    {"id": "intro-hero", "type": "hero", "enabled": true, "order": 0,
     "slides": [{"src": "/static/demo/hero-1.jpg", "alt": "Demo banner"}]},
    {"id": "my-links", "type": "links", "enabled": true, "order": 1, "layout": "list",
     "items": [{"id": "site", "label": "My website", "href": "https://example.com"}]},
    {"id": "shots", "type": "gallery", "enabled": true, "order": 2, "columns": 3, "gap": "md",
     "items": [{"id": "g1", "src": "/static/demo/shot-1.jpg", "alt": "Demo shot"}]},
    {"id": "clips", "type": "video", "enabled": true, "order": 3, "items": []}
  ],
  "meta": {"title": "Demo", "description": "A demo Linkfolio page"}
}`

// Seed populates the database with initial development data: a default
// admin and a demo page owner with a published example page. It is a no-op
// when users already exist. Admins are prompted to set up 2FA on first login
// (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}
	demoHash, err := bcrypt.GenerateFromPassword([]byte("demo"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, slug, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, "admin@linkfolio.local", string(adminHash), "Admin", "admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	var demoID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, slug, role, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, "demo@linkfolio.local", string(demoHash), "Demo Owner", "demo", "owner",
		"Hi, I'm the **demo** page.").Scan(&demoID)
	if err != nil {
		return fmt.Errorf("seed insert demo owner: %w", err)
	}

	// The demo page starts already published: draft and published slots
	// hold the same document, as they would right after a publish.
	_, err = db.Exec(`
		INSERT INTO pages (owner_id, draft_config, published_config, published_at)
		VALUES ($1, $2::jsonb, $2::jsonb, NOW())
	`, demoID, demoConfig)
	if err != nil {
		return fmt.Errorf("seed insert demo page: %w", err)
	}

	slog.Info("database seeded with default users",
		"admin", "admin@linkfolio.local",
		"demo", "demo@linkfolio.local",
	)

	return nil
}
