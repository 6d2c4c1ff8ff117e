package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// swipeInverses maps an action kind to the store mutation that reverses
// it. New action kinds register here instead of growing a switch inside
// the undo handler; the history log itself stays ignorant of mutation
// semantics.
var swipeInverses = map[SwipeType]func(*Store, string){
	SwipeLike: func(s *Store, id string) { s.UnlikeProfile(id) },
	SwipePass: func(s *Store, id string) { s.UnpassProfile(id) },
}

// GET /deck?lat=48.85&lon=2.35&radius_km=50
// Returns the not-yet-swiped candidates, nearest first. Without
// coordinates the Paris fallback applies; a radius that matches nobody
// falls back to the whole remaining deck instead of emptying it.
func deckHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		sess := app.session(r)

		origin := parisLocation
		if lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64); errLat == nil {
			if lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64); errLon == nil {
				origin = LatLng{Lat: lat, Lon: lon}
			}
		}
		radius := 0.0
		if v := r.URL.Query().Get("radius_km"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				radius = f
			}
		}

		candidates := withinRadius(origin, sess.Store.Candidates(), radius)
		sortByDistance(origin, candidates)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"profiles": candidates,
			"canUndo":  sess.History.CanUndo(),
		})
	})
}

// POST /deck/swipe {"profileId": "...", "dx": 150, "dy": 0}
// Classifies the released drag and applies the resulting intent. Likes
// seed the match chat; details and sub-threshold drags mutate nothing.
func swipeHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		type SwipeRequest struct {
			ProfileID string  `json:"profileId"`
			DX        float64 `json:"dx"`
			DY        float64 `json:"dy"`
		}
		var req SwipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		sess := app.session(r)
		if _, ok := sess.Store.ProfileByID(req.ProfileID); !ok {
			writeError(w, http.StatusNotFound, "profile_not_found")
			return
		}

		intent := ClassifyGesture(req.DX, req.DY)
		switch intent {
		case IntentLike:
			sess.Store.LikeProfile(req.ProfileID)
			sess.History.RecordSwipe(SwipeLike, req.ProfileID)
		case IntentPass:
			sess.Store.PassProfile(req.ProfileID)
			sess.History.RecordSwipe(SwipePass, req.ProfileID)
		case IntentDetails, IntentNone:
			// details opens the card, none snaps it back to rest
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"intent":  intent,
			"canUndo": sess.History.CanUndo(),
		})
	})
}

// POST /deck/undo — pops the latest swipe and reverses its store mutation
// through the inverse table.
func undoHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		sess := app.session(r)

		action, ok := sess.History.UndoLastSwipe()
		if !ok {
			writeError(w, http.StatusConflict, "nothing_to_undo")
			return
		}
		invert, ok := swipeInverses[action.Type]
		if !ok {
			log.Println("No inverse registered for swipe type:", action.Type)
			writeError(w, http.StatusInternalServerError, "undo_error")
			return
		}
		invert(sess.Store, action.ProfileID)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"undone":  action,
			"canUndo": sess.History.CanUndo(),
		})
	})
}

// GET /matches — the liked profiles, in deck order.
func matchesHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		sess := app.session(r)
		writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": sess.Store.LikedProfiles()})
	})
}
