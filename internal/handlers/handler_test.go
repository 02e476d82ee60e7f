// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"linkfolio/internal/cache"
	"linkfolio/internal/database"
	"linkfolio/internal/middleware"
	"linkfolio/internal/models"
	"linkfolio/internal/session"
	"linkfolio/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "linkfolio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "linkfolio")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "page:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Sessions  *session.Store
	UserStore *store.UserStore
	PageStore *store.PageStore
	HeroStore *store.HeroSlideStore
	PageCache *cache.PageCache
	Public    *Public
	Auth      *Auth
	Owner     *Owner
	HeroAdmin *HeroAdmin
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	userStore := store.NewUserStore(db)
	pageStore := store.NewPageStore(db)
	settingStore := store.NewSiteSettingStore(db)
	heroStore := store.NewHeroSlideStore(settingStore)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Sessions:  sessions,
		UserStore: userStore,
		PageStore: pageStore,
		HeroStore: heroStore,
		PageCache: pageCache,
		Public:    NewPublic(userStore, pageStore, heroStore, pageCache),
		Auth:      NewAuth(sessions, userStore, pageStore),
		Owner:     NewOwner(userStore, pageStore, pageCache),
		HeroAdmin: NewHeroAdmin(heroStore, nil),
	}
}

// newTestOwner creates an owner with a page row and returns the user.
func (e *testEnv) newTestOwner(t *testing.T, email, slug string) *models.User {
	t.Helper()

	e.DB.Exec("DELETE FROM users WHERE email = $1", email)
	user, err := e.UserStore.Create(email, "test-password-123", "Test Owner", slug, models.RoleOwner)
	if err != nil {
		t.Fatalf("create test owner: %v", err)
	}
	if err := e.PageStore.Ensure(user.ID); err != nil {
		t.Fatalf("ensure page: %v", err)
	}
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM users WHERE email = $1", email)
		e.PageCache.Invalidate(context.Background(), slug)
	})
	return user
}

// sessionFor builds session data for a user with 2FA completed.
func sessionFor(user *models.User) *session.Data {
	return &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Slug:        user.Slug,
		Role:        string(user.Role),
		TwoFADone:   true,
	}
}

// withSession adds session data to a request context using the middleware key.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
