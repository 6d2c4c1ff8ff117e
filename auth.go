package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// VisitorIDKey is the key type for storing the visitor id in context
type VisitorIDKey string

// visitorIDKey constant for context
const visitorIDKey VisitorIDKey = "visitorID"

// AuthConfig carries the JWT signing secret and the bcrypt hash of the
// admin passphrase. It is passed explicitly to the handlers that need it
// instead of living in package-level state.
type AuthConfig struct {
	Secret              []byte
	AdminPassphraseHash []byte
	TokenTTL            time.Duration
}

func newAuthConfigFromEnv() *AuthConfig {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your_secret_key_please_change_in_production"
	}

	hash := []byte(os.Getenv("ADMIN_PASSPHRASE_HASH"))
	if len(hash) == 0 {
		passphrase := os.Getenv("ADMIN_PASSPHRASE")
		if passphrase == "" {
			passphrase = "greve-generale"
			log.Println("Warning: ADMIN_PASSPHRASE not set, using default passphrase")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Error hashing admin passphrase:", err)
		}
		hash = h
	}

	return &AuthConfig{
		Secret:              []byte(secret),
		AdminPassphraseHash: hash,
		TokenTTL:            24 * time.Hour,
	}
}

func (a *AuthConfig) newToken(visitorID string, admin bool) (string, error) {
	ttl := a.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"visitor_id": visitorID,
		"admin":      admin,
		"expires":    time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(a.Secret)
}

// parseToken returns the visitor id and admin flag carried by a signed
// token, or ok=false for anything invalid.
func (a *AuthConfig) parseToken(tokenStr string) (visitorID string, admin, ok bool) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", false, false
	}
	visitorID, idOK := claims["visitor_id"].(string)
	if !idOK || visitorID == "" {
		return "", false, false
	}
	admin, _ = claims["admin"].(bool)
	return visitorID, admin, true
}

// POST /session — hands out an anonymous visitor session token. Every
// browser instance grabs one on startup; the token identifies the
// visitor's server-side app state.
func sessionHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		visitorID := uuid.NewString()
		tokenString, err := app.Auth.newToken(visitorID, false)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			log.Println("Error generating session token:", err)
			return
		}

		// Seed the store right away so the first /deck call is warm.
		app.Sessions.Get(visitorID)

		writeJSON(w, http.StatusCreated, map[string]interface{}{"token": tokenString, "visitor_id": visitorID})
	}
}

// POST /admin/login — passphrase check for the endpoints that write the
// shared Gist or mutate the catalog.
func adminLoginHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type LoginRequest struct {
			Passphrase string `json:"passphrase"`
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		req.Passphrase = strings.TrimSpace(req.Passphrase)
		if req.Passphrase == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}

		if err := bcrypt.CompareHashAndPassword(app.Auth.AdminPassphraseHash, []byte(req.Passphrase)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}

		tokenString, err := app.Auth.newToken(uuid.NewString(), true)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			log.Println("Error generating admin token:", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"token": tokenString})
	}
}

// authenticate wraps a handler, requiring a valid session token and
// stashing the visitor id in the request context.
func (app *App) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitorID, _, ok := visitorFromRequest(app.Auth, r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		app.Sessions.Get(visitorID).Touch()
		next(w, r.WithContext(context.WithValue(r.Context(), visitorIDKey, visitorID)))
	}
}

// authenticateAdmin additionally requires the admin claim.
func (app *App) authenticateAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitorID, admin, ok := visitorFromRequest(app.Auth, r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !admin {
			writeError(w, http.StatusForbidden, "admin_required")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), visitorIDKey, visitorID)))
	}
}

// visitorFromRequest extracts the token from the Authorization header, or
// from the token query param for WebSocket upgrades (browsers can't set
// headers there).
func visitorFromRequest(auth *AuthConfig, r *http.Request) (visitorID string, admin, ok bool) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return auth.parseToken(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if q := r.URL.Query().Get("token"); q != "" {
		return auth.parseToken(q)
	}
	return "", false, false
}

// session returns the caller's session. Handlers behind authenticate can
// rely on the context value being present.
func (app *App) session(r *http.Request) *Session {
	visitorID, _ := r.Context().Value(visitorIDKey).(string)
	return app.Sessions.Get(visitorID)
}
