// ABOUTME: Tests for the bearer token middleware guarding the workspace API.
// ABOUTME: Covers exempt paths, header and query token forms, and rejection of bad tokens.
package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return requireToken("s3cret")(next)
}

func TestRequireTokenExemptsShellPaths(t *testing.T) {
	handler := protectedHandler(t)

	paths := []string{"/", "/health", "/guide", "/static/css/app.css", "/static/js/app.js"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected %s to be exempt, got status %d", path, w.Code)
		}
	}
}

func TestRequireTokenBlocksAPIWithoutToken(t *testing.T) {
	handler := protectedHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestRequireTokenAcceptsBearerHeader(t *testing.T) {
	handler := protectedHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 with bearer token, got %d", w.Code)
	}
}

func TestRequireTokenAcceptsQueryParameter(t *testing.T) {
	handler := protectedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/events?token=s3cret", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 with query token, got %d", w.Code)
	}
}

func TestRequireTokenRejectsWrongToken(t *testing.T) {
	handler := protectedHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with wrong token, got %d", w.Code)
	}
}

func TestPresentedTokenPrefersBearerHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/events?token=from-query", nil)
	req.Header.Set("Authorization", "Bearer from-header")

	if got := presentedToken(req); got != "from-header" {
		t.Fatalf("presentedToken = %q, want from-header", got)
	}
}

func TestTokenMatches(t *testing.T) {
	if !tokenMatches("s3cret", "s3cret") {
		t.Error("expected matching tokens to compare equal")
	}
	if tokenMatches("s3cret", "other") {
		t.Error("expected mismatched tokens to compare unequal")
	}
	if tokenMatches("", "") != true {
		t.Error("expected two empty tokens to compare equal")
	}
}
