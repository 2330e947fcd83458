// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(testAuthKey, true)
	if len(dev.TrustedOrigins) != 2 {
		t.Errorf("expected 2 TrustedOrigins in dev mode, got %d", len(dev.TrustedOrigins))
	}
	for _, origin := range dev.TrustedOrigins {
		if len(origin) > 4 && origin[:4] == "http" {
			t.Errorf("TrustedOrigin should be host:port, not full URL: %s", origin)
		}
	}

	prod := DefaultCSRFConfig(testAuthKey, false)
	if len(prod.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %d", len(prod.TrustedOrigins))
	}
	if len(prod.SkipPrefixes) != 1 || prod.SkipPrefixes[0] != "/api/" {
		t.Errorf("SkipPrefixes = %v", prod.SkipPrefixes)
	}
}

func TestCSRF_CrossSitePost(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testAuthKey, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		path string
		site string
		want int
	}{
		{"same-origin form post", "/admin/blogs/1/delete", "same-origin", http.StatusOK},
		{"cross-site form post", "/admin/blogs/1/delete", "cross-site", http.StatusForbidden},
		{"cross-site api post is skipped", "/api/admin/blogs", "cross-site", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			req.Header.Set("Sec-Fetch-Site", tt.site)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
