package main

import "net/http"

// POST /me/ping — mark this visitor as active "now", keeping the session
// out of the janitor's reach.
func mePingHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		visitorID, _, ok := visitorFromRequest(app.Auth, r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		app.Sessions.Get(visitorID).Touch()
		w.WriteHeader(http.StatusNoContent)
	}
}
