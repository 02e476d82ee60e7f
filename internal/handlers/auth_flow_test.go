// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"linkfolio/internal/session"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string, sess *session.Data) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sess != nil {
		req = withSession(req, sess)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// postJSONWithCookie is postJSON with a real session cookie attached, for
// handlers that write the session back to Valkey.
func postJSONWithCookie(t *testing.T, handler http.HandlerFunc, path, body string, sess *session.Data, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	req = withSession(req, sess)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

// createSession stores a real session in Valkey and returns its cookie.
func createSession(t *testing.T, env *testEnv, sess *session.Data) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := env.Sessions.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), rec, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	email := "register@test.local"
	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })

	body := `{"email": "register@test.local", "password": "long-enough-pw", "display_name": "Reg", "slug": "register-me"}`
	rec := postJSON(t, env.Auth.Register, "/api/auth/register", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	// Page row provisioned eagerly.
	user, err := env.UserStore.FindByEmail(email)
	if err != nil || user == nil {
		t.Fatalf("registered user not found: %v", err)
	}
	page, err := env.PageStore.FindByOwner(user.ID)
	if err != nil || page == nil {
		t.Fatalf("page row not provisioned at registration: %v", err)
	}

	// Session cookie issued.
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == session.CookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no session cookie set on register")
	}

	// Duplicate email and slug are conflicts.
	rec = postJSON(t, env.Auth.Register, "/api/auth/register", body, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email": "not-an-email", "password": "long-enough-pw", "slug": "ok-slug"}`},
		{"short password", `{"email": "a@test.local", "password": "short", "slug": "ok-slug"}`},
		{"bad slug chars", `{"email": "a@test.local", "password": "long-enough-pw", "slug": "Bad Slug!"}`},
		{"slug too short", `{"email": "a@test.local", "password": "long-enough-pw", "slug": "ab"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, env.Auth.Register, "/api/auth/register", tt.body, nil)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLoginAnd2FAFlow(t *testing.T) {
	env := newTestEnv(t)
	user := env.newTestOwner(t, "login-flow@test.local", "login-flow")

	// Wrong password.
	rec := postJSON(t, env.Auth.Login, "/api/auth/login",
		`{"email": "login-flow@test.local", "password": "wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", rec.Code)
	}

	// Correct password; user has no TOTP yet, so next step is setup.
	rec = postJSON(t, env.Auth.Login, "/api/auth/login",
		`{"email": "login-flow@test.local", "password": "test-password-123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var loginResp struct {
		NextStep string `json:"next_step"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loginResp.NextStep != "2fa_setup" {
		t.Errorf("next_step = %q, want 2fa_setup", loginResp.NextStep)
	}

	// 2FA setup returns a secret and QR code.
	sess := sessionFor(user)
	sess.TwoFADone = false
	cookie := createSession(t, env, sess)
	rec = postJSON(t, env.Auth.TwoFASetup, "/api/auth/2fa/setup", "", sess)
	if rec.Code != http.StatusOK {
		t.Fatalf("2fa setup status = %d: %s", rec.Code, rec.Body.String())
	}
	var setupResp struct {
		Secret string `json:"secret"`
		QRPNG  string `json:"qr_png"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &setupResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if setupResp.Secret == "" || setupResp.QRPNG == "" {
		t.Fatal("setup response missing secret or QR code")
	}

	// A bad code is rejected.
	rec = postJSONWithCookie(t, env.Auth.TwoFAVerify, "/api/auth/2fa/verify", `{"code": "000000"}`, sess, cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad code status = %d, want 401", rec.Code)
	}

	// A valid code enables TOTP.
	code, err := totp.GenerateCode(setupResp.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	rec = postJSONWithCookie(t, env.Auth.TwoFAVerify, "/api/auth/2fa/verify", `{"code": "`+code+`"}`, sess, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", rec.Code, rec.Body.String())
	}

	got, _ := env.UserStore.FindByID(user.ID)
	if !got.TOTPEnabled {
		t.Error("TOTP not enabled after successful verification")
	}
}

func TestTwoFAVerifyWithoutSetup(t *testing.T) {
	env := newTestEnv(t)
	user := env.newTestOwner(t, "no-setup@test.local", "no-setup")

	sess := sessionFor(user)
	sess.TwoFADone = false
	rec := postJSON(t, env.Auth.TwoFAVerify, "/api/auth/2fa/verify", `{"code": "123456"}`, sess)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 before setup", rec.Code)
	}
}
