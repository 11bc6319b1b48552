// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the HTTP routes and middleware chains of the public
// and admin APIs.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recree/internal/handlers"
	"recree/internal/httputil"
	"recree/internal/middleware"
	"recree/internal/session"
)

// Deps are the handler groups and shared components the router mounts.
type Deps struct {
	Sessions      *session.Store
	LoginLimiter  *middleware.RateLimiter
	SecureCookies bool

	Auth   *handlers.Auth
	Topics *handlers.Topics
	Tags   *handlers.Tags
	Public *handlers.Public
}

// New creates the chi router with every route group wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteCode(w, r, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteCode(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/topics", d.Public.Topics)
		r.Get("/topics/{slug}", d.Public.Topic)
		r.Get("/tags", d.Public.Tags)
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.NewCSRF(d.SecureCookies))
		r.Use(middleware.LoadSession(d.Sessions))

		r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.Login)

		// Logged in, second factor not required yet.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", d.Auth.TwoFASetup)
			r.With(d.LoginLimiter.Middleware).Post("/2fa/verify", d.Auth.TwoFAVerify)
			r.Post("/logout", d.Auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/me", d.Auth.Me)

			r.Route("/topics", func(r chi.Router) {
				r.Get("/", d.Topics.List)
				r.Post("/", d.Topics.Create)
				r.Get("/styles", d.Topics.Styles)
				r.Post("/reorder", d.Topics.Reorder)
				r.Get("/{id}", d.Topics.Get)
				r.Put("/{id}", d.Topics.Update)
				r.Delete("/{id}", d.Topics.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", d.Tags.List)
				r.Post("/", d.Tags.Create)
				r.Get("/groups", d.Tags.Groups)
				r.Post("/reorder", d.Tags.Reorder)
				r.Get("/{id}", d.Tags.Get)
				r.Put("/{id}", d.Tags.Update)
				r.Delete("/{id}", d.Tags.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/{id}/reset-2fa", d.Auth.ResetTwoFA)
			})
		})
	})

	return r
}

// healthHandler answers the liveness check.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, map[string]string{"status": "ok"})
}
