// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestProtection(now *time.Time) *LoginProtection {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       0.001,
		IPBurst:           2,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     10 * time.Minute,
	})
	lp.now = func() time.Time { return *now }
	return lp
}

func TestLoginProtection_LockoutAndBackoff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lp := newTestProtection(&now)
	email := "Admin@Example.com"

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	if got := lp.RemainingAttempts("admin@example.com"); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("third failure: locked=%v d=%v", locked, d)
	}
	if locked, _ := lp.IsAccountLocked("admin@example.com"); !locked {
		t.Error("account should be locked (case-insensitive)")
	}

	now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("lock should have expired")
	}

	for i := 0; i < 2; i++ {
		lp.RecordFailedAttempt(email)
	}
	if _, d := lp.RecordFailedAttempt(email); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want doubled to 2m", d)
	}

	lp.RecordSuccessfulLogin(email)
	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts after success = %d, want 3", got)
	}
}

func TestLoginProtection_WindowReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lp := newTestProtection(&now)

	lp.RecordFailedAttempt("a@example.com")
	lp.RecordFailedAttempt("a@example.com")
	now = now.Add(11 * time.Minute)

	if locked, _ := lp.RecordFailedAttempt("a@example.com"); locked {
		t.Error("failures outside the window should not lock")
	}
}

func TestLoginProtection_Cleanup(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lp := newTestProtection(&now)

	lp.RecordFailedAttempt("old@example.com")
	now = now.Add(time.Hour)
	lp.RecordFailedAttempt("new@example.com")

	if n := lp.Cleanup(); n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
}

func TestLoginProtection_Middleware(t *testing.T) {
	now := time.Now()
	lp := newTestProtection(&now)
	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
		req.RemoteAddr = "192.0.2.1:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if post() != http.StatusOK || post() != http.StatusOK {
		t.Fatal("burst should be allowed")
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("third post = %d, want 429", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/signin", nil)
	req.RemoteAddr = "192.0.2.1:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET should never be limited, got %d", rec.Code)
	}
}
