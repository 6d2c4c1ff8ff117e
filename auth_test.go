package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVisitorFromRequest(t *testing.T) {
	auth := newTestAuth(t)
	token, err := auth.newToken("visitor-1", false)
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	t.Run("Valid Authorization header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		visitorID, admin, ok := visitorFromRequest(auth, req)
		if !ok {
			t.Fatal("Expected visitorFromRequest to succeed")
		}
		if visitorID != "visitor-1" || admin {
			t.Errorf("Expected visitor-1 without admin, got %q admin=%v", visitorID, admin)
		}
	})

	t.Run("Valid token query parameter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test?token="+token, nil)

		visitorID, _, ok := visitorFromRequest(auth, req)
		if !ok || visitorID != "visitor-1" {
			t.Errorf("Expected visitor-1 from query param, got %q ok=%v", visitorID, ok)
		}
	})

	t.Run("No authentication", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		if _, _, ok := visitorFromRequest(auth, req); ok {
			t.Error("Expected visitorFromRequest to fail")
		}
	})

	t.Run("Invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer invalid_token")
		if _, _, ok := visitorFromRequest(auth, req); ok {
			t.Error("Expected visitorFromRequest to fail with invalid token")
		}
	})

	t.Run("Malformed Authorization header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "NotBearer "+token)
		if _, _, ok := visitorFromRequest(auth, req); ok {
			t.Error("Expected visitorFromRequest to fail with malformed header")
		}
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		other := newTestAuth(t)
		other.Secret = []byte("another-secret")
		foreign, err := other.newToken("visitor-1", false)
		if err != nil {
			t.Fatalf("Failed to create token: %v", err)
		}
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		if _, _, ok := visitorFromRequest(auth, req); ok {
			t.Error("Expected visitorFromRequest to reject a foreign signature")
		}
	})

	t.Run("Admin claim survives the round trip", func(t *testing.T) {
		adminTok, err := auth.newToken("admin-1", true)
		if err != nil {
			t.Fatalf("Failed to create token: %v", err)
		}
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+adminTok)

		visitorID, admin, ok := visitorFromRequest(auth, req)
		if !ok || !admin || visitorID != "admin-1" {
			t.Errorf("Expected admin-1 with admin claim, got %q admin=%v ok=%v", visitorID, admin, ok)
		}
	})
}

func TestSessionEndpoint(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(newMux(app))
	defer srv.Close()

	t.Run("GET is rejected", func(t *testing.T) {
		resp, _ := doJSON(t, srv, "GET", "/session", "", nil)
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", resp.StatusCode)
		}
	})

	t.Run("POST hands out a working token", func(t *testing.T) {
		resp, body := doJSON(t, srv, "POST", "/session", "", nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}

		var out struct {
			Token     string `json:"token"`
			VisitorID string `json:"visitor_id"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		visitorID, admin, ok := app.Auth.parseToken(out.Token)
		if !ok || admin || visitorID != out.VisitorID {
			t.Errorf("Expected a non-admin token for %q, got %q admin=%v ok=%v", out.VisitorID, visitorID, admin, ok)
		}

		// The session store was seeded eagerly
		if _, exists := app.Sessions.Peek(out.VisitorID); !exists {
			t.Error("Expected the session to exist after /session")
		}

		// The token opens the deck
		resp, _ = doJSON(t, srv, "GET", "/deck", out.Token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200 from /deck, got %d", resp.StatusCode)
		}
	})
}

func TestAdminLogin(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(newMux(app))
	defer srv.Close()

	t.Run("Wrong passphrase", func(t *testing.T) {
		resp, _ := doJSON(t, srv, "POST", "/admin/login", "", map[string]string{"passphrase": "wrong"})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Empty passphrase", func(t *testing.T) {
		resp, _ := doJSON(t, srv, "POST", "/admin/login", "", map[string]string{"passphrase": "  "})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("Correct passphrase yields an admin token", func(t *testing.T) {
		resp, body := doJSON(t, srv, "POST", "/admin/login", "", map[string]string{"passphrase": testAdminPassphrase})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if _, admin, ok := app.Auth.parseToken(out.Token); !ok || !admin {
			t.Error("Expected a valid admin token")
		}
	})
}

func TestAdminGating(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(newMux(app))
	defer srv.Close()

	profile := map[string]any{"id": "profile-new", "name": "Inès"}

	t.Run("No token", func(t *testing.T) {
		resp, _ := doJSON(t, srv, "POST", "/profiles", "", profile)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Visitor token", func(t *testing.T) {
		resp, _ := doJSON(t, srv, "POST", "/profiles", visitorToken(t, app, "v1"), profile)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("Admin token", func(t *testing.T) {
		resp, _ := doJSON(t, srv, "POST", "/profiles", adminToken(t, app, "a1"), profile)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
	})
}
