package main

import (
	"net/http"
	"sort"
)

// ChatPeerSummary is one row of the chat sidebar.
type ChatPeerSummary struct {
	ProfileID      string `json:"profileId"`
	Name           string `json:"name,omitempty"`
	PhotoURL       string `json:"photoUrl,omitempty"`
	LastMessage    string `json:"lastMessage,omitempty"`
	LastMessageAt  int64  `json:"lastMessageAt,omitempty"`
	UnreadMessages int    `json:"unreadMessages"`
}

// GET /chats/summary — every open transcript with its latest message and
// unread badge, newest activity first.
func chatSummaryHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		sess := app.session(r)

		summaries := make([]ChatPeerSummary, 0, 16)
		for _, id := range sess.Store.ChatIDs() {
			msgs := sess.Store.Chat(id)
			if len(msgs) == 0 {
				continue
			}
			s := ChatPeerSummary{
				ProfileID:      id,
				UnreadMessages: sess.Store.UnreadCount(id),
			}
			if p, ok := sess.Store.ProfileByID(id); ok {
				s.Name = p.Name
				s.PhotoURL = p.PhotoURL
			}
			last := msgs[len(msgs)-1]
			s.LastMessage = last.Text
			s.LastMessageAt = last.Ts
			summaries = append(summaries, s)
		}

		sort.Slice(summaries, func(i, j int) bool {
			if summaries[i].LastMessageAt == summaries[j].LastMessageAt {
				return summaries[i].ProfileID < summaries[j].ProfileID
			}
			return summaries[i].LastMessageAt > summaries[j].LastMessageAt
		})

		writeJSON(w, http.StatusOK, summaries)
	})
}

// POST /chats/read?profile_id=xyz — mark the bot's messages in one chat as
// read, clearing the sidebar badge.
func chatsMarkReadHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		profileID := r.URL.Query().Get("profile_id")
		if profileID == "" {
			writeError(w, http.StatusBadRequest, "bad_profile_id")
			return
		}
		app.session(r).Store.MarkChatRead(profileID)
		w.WriteHeader(http.StatusNoContent)
	})
}
