// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecoverer(t *testing.T) {
	for _, val := range []any{"something went wrong", 42} {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(val)
		})
		rr := httptest.NewRecorder()
		Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/topics", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("panic %v: status got %d, want 500", val, rr.Code)
		}
		if code := errorCode(t, rr); code != "INTERNAL_ERROR" {
			t.Errorf("panic %v: code got %q", val, code)
		}
	}
}

func TestRecovererNoPanic(t *testing.T) {
	inner, called := okHandler()
	rr := httptest.NewRecorder()
	Recoverer(inner).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !*called || rr.Code != http.StatusOK {
		t.Errorf("expected pass-through, got %d", rr.Code)
	}
}

func TestRecovererRepanicsAbort(t *testing.T) {
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})
	Recoverer(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
