package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

const gistCallTimeout = 15 * time.Second

// /profiles — GET lists the visitor's profile collection, POST upserts a
// profile (admin only; the change lands in the admin's session and is
// shared on the next Gist publish).
func profilesHandler(app *App) http.HandlerFunc {
	list := app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, app.session(r).Store.Profiles())
	})
	upsert := app.authenticateAdmin(func(w http.ResponseWriter, r *http.Request) {
		var p Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if strings.TrimSpace(p.ID) == "" {
			writeError(w, http.StatusBadRequest, "missing_id")
			return
		}
		app.session(r).Store.UpsertProfile(p)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			upsert(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	}
}

// DELETE /profiles/{id}
func profilesDispatcher(app *App) http.HandlerFunc {
	return app.authenticateAdmin(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "profiles" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		app.session(r).Store.RemoveProfile(parts[1])
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	})
}

// /me/profile — the visitor's own profile slot.
func meProfileHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		sess := app.session(r)
		switch r.Method {
		case http.MethodGet:
			u, ok := sess.Store.CurrentUser()
			if !ok {
				writeError(w, http.StatusNotFound, "profile_not_found")
				return
			}
			writeJSON(w, http.StatusOK, u)
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			var p Profile
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			if p.ID == "" {
				p.ID = "user-" + sess.VisitorID
			}
			sess.Store.UpdateUserProfile(p)
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		case http.MethodDelete:
			sess.Store.DeleteUserProfile()
			writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	})
}

// GET /me/profile/complete — completeness predicate for the editor UI.
func completeProfileHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"complete": app.session(r).Store.IsProfileComplete()})
	})
}

// POST /gist/publish {"token": "...", "description": "..."}
// Pushes the admin's profile collection to the Gist: first publish creates
// it, later ones PATCH the recorded id. The GitHub PAT comes from the
// request, falling back to the server's configured token.
func publishGistHandler(app *App) http.HandlerFunc {
	return app.authenticateAdmin(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type PublishRequest struct {
			Token       string `json:"token"`
			Description string `json:"description"`
		}
		var req PublishRequest
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body is fine

		token := req.Token
		if token == "" {
			token = app.GithubToken
		}
		if token == "" {
			writeError(w, http.StatusBadRequest, "missing_github_token")
			return
		}

		profiles := app.session(r).Store.Profiles()

		ctx, cancel := context.WithTimeout(r.Context(), gistCallTimeout)
		defer cancel()

		var res GistResult
		if app.Gist.GistID() == "" {
			res = app.Gist.CreateGist(ctx, profiles, token, req.Description)
		} else {
			res = app.Gist.UpdateGist(ctx, profiles, token)
		}
		if !res.Success {
			log.Println("Gist publish failed:", res.Error)
			writeJSON(w, http.StatusBadGateway, res)
			return
		}

		// Future sessions start from the published collection.
		app.Sessions.SetCatalog(profiles)
		writeJSON(w, http.StatusOK, res)
	})
}

// POST /gist/load {"gistId": "..."}
// Reads a Gist into the shared catalog and the caller's own session.
func loadGistHandler(app *App) http.HandlerFunc {
	return app.authenticateAdmin(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type LoadRequest struct {
			GistID string `json:"gistId"`
		}
		var req LoadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if strings.TrimSpace(req.GistID) == "" {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), gistCallTimeout)
		defer cancel()

		res := app.Gist.ReadProfiles(ctx, req.GistID)
		if !res.Success {
			log.Println("Gist load failed:", res.Error)
			writeJSON(w, http.StatusBadGateway, res)
			return
		}

		app.Gist.SetGistID(req.GistID)
		app.Sessions.SetCatalog(res.Profiles)
		app.session(r).Store.SetProfiles(res.Profiles)
		writeJSON(w, http.StatusOK, res)
	})
}
