// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	inner, _ := okHandler()
	rr := httptest.NewRecorder()
	SecureHeaders(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/topics", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Permissions-Policy":      "interest-cohort=()",
	}
	for header, value := range want {
		if got := rr.Header().Get(header); got != value {
			t.Errorf("%s: got %q, want %q", header, got, value)
		}
	}
}

func TestNoStore(t *testing.T) {
	inner, _ := okHandler()
	rr := httptest.NewRecorder()
	NoStore(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/api/topics", nil))
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control: got %q", got)
	}
}
