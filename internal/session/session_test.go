// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Session tests require a running Valkey instance and are skipped otherwise.
package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
		client.Close()
	})
	return client
}

// requestWithCookie returns a request carrying the session cookie from rec.
func requestWithCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			req.AddCookie(c)
			return req
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	store := NewStore(testClient(t), false)
	ctx := context.Background()

	data := &Data{
		UserID:      uuid.New(),
		Email:       "owner@test.local",
		DisplayName: "Owner",
		Slug:        "owner-slug",
		Role:        "owner",
	}

	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session ID")
	}

	req := requestWithCookie(t, rec)
	got, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.UserID != data.UserID || got.Slug != "owner-slug" {
		t.Fatalf("Get = %+v, want stored data", got)
	}
	if got.TwoFADone {
		t.Error("fresh session must not be 2FA-complete")
	}

	got.TwoFADone = true
	if err := store.Update(ctx, req, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := store.Get(ctx, req)
	if again == nil || !again.TwoFADone {
		t.Error("Update did not persist 2FA flag")
	}

	destroyRec := httptest.NewRecorder()
	if err := store.Destroy(ctx, destroyRec, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	gone, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if gone != nil {
		t.Errorf("session survived destroy: %+v", gone)
	}
}

func TestSessionGetWithoutCookie(t *testing.T) {
	store := NewStore(testClient(t), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get without cookie = %+v, want nil", got)
	}
}
