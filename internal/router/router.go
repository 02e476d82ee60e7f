// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Linkfolio API. It organizes routes into public, auth, owner, and admin
// groups with appropriate middleware stacks.
package router

import (
	"github.com/go-chi/chi/v5"

	"linkfolio/internal/handlers"
	"linkfolio/internal/middleware"
	"linkfolio/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessionStore *session.Store,
	authLimiter *middleware.RateLimiter,
	public *handlers.Public,
	auth *handlers.Auth,
	owner *handlers.Owner,
	heroAdmin *handlers.HeroAdmin,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", public.Health)

	// Anonymous read side.
	r.Get("/api/pages/{slug}", public.PageBySlug)
	r.Get("/api/hero", public.HeroList)

	// Authentication — rate limited and CSRF protected.
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middleware.CSRF)

		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})
	})

	// Owner page management — authenticated and 2FA-verified.
	r.Route("/api/me", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)

		r.Get("/page", owner.GetPage)
		r.Put("/page/draft", owner.SaveDraft)
		r.Post("/page/publish", owner.Publish)
		r.Put("/page/theme", owner.SetTheme)
		r.Put("/page/font", owner.SetFont)
		r.Put("/profile", owner.UpdateProfile)
	})

	// Site-wide hero banner management — admin only.
	r.Route("/api/admin/hero", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)
		r.Use(middleware.RequireAdmin)

		r.Put("/{slot}", heroAdmin.Upsert)
		r.Delete("/{slot}", heroAdmin.Delete)
	})

	return r
}
