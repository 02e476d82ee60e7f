// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"linkfolio/internal/database"
	"linkfolio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "linkfolio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "linkfolio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway owner and registers cleanup. The page row is
// removed with the user via the foreign key cascade.
func testUser(t *testing.T, db *sql.DB, email, slug string) *models.User {
	t.Helper()

	users := NewUserStore(db)
	cleanUsers(t, db, email)

	user, err := users.Create(email, "test-password-123", "Test Owner", slug, models.RoleOwner)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })
	return user
}

// cleanUsers removes test users by email. Call before creating fixtures so a
// crashed earlier run does not poison the test.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanSettings removes site settings by key. Call in t.Cleanup().
func cleanSettings(t *testing.T, db *sql.DB, keys ...string) {
	t.Helper()
	for _, key := range keys {
		db.Exec("DELETE FROM site_settings WHERE key = $1", key)
	}
}
