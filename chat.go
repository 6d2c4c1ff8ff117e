package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ServerEvent represents a server-sent event
type ServerEvent struct {
	Type      string `json:"type"` // "message" | "typing" | "info" | "error"
	ProfileID string `json:"profileId,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// ClientEvent is what the frontend sends over the socket.
type ClientEvent struct {
	Type      string `json:"type"` // "message" | "typing"
	ProfileID string `json:"profileId,omitempty"`
	Body      string `json:"body,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	visitorID string
	conn      *websocket.Conn
	send      chan ServerEvent
	app       *App
}

// Hub manages WebSocket client connections. A visitor can hold several
// open tabs, each with its own client.
type Hub struct {
	clientsByVisitor map[string]map[*Client]bool
	mu               sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clientsByVisitor: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clientsByVisitor[c.visitorID] == nil {
		h.clientsByVisitor[c.visitorID] = make(map[*Client]bool)
	}
	h.clientsByVisitor[c.visitorID][c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.clientsByVisitor[c.visitorID]; ok {
		delete(peers, c)
		if len(peers) == 0 {
			delete(h.clientsByVisitor, c.visitorID)
		}
	}
}

func (h *Hub) sendToVisitor(visitorID string, evt ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if peers, ok := h.clientsByVisitor[visitorID]; ok {
		for c := range peers {
			select {
			case c.send <- evt:
			default:
				// Drop event if this tab's buffer is full
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// For development: allow Vite dev origin ws://localhost:5173
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/chat?token=... — live chat socket. Every user message is echoed
// back immediately; the bot answers after a short typing delay.
func wsChatHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitorID, _, ok := visitorFromRequest(app.Auth, r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WS upgrade error for visitor %s: %v", visitorID, err)
			return
		}

		client := &Client{
			visitorID: visitorID,
			conn:      conn,
			send:      make(chan ServerEvent, 16),
			app:       app,
		}
		app.Hub.register(client)

		// Announce connection to this client
		client.send <- ServerEvent{Type: "info", Data: "connected"}

		// Start writer
		go clientWriter(client)
		// Start reader (blocks)
		clientReader(client)
	}
}

func clientReader(c *Client) {
	defer func() {
		c.app.Hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 20)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var evt ClientEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			c.send <- ServerEvent{Type: "error", Data: "invalid message format"}
			continue
		}

		switch evt.Type {
		case "message":
			body := strings.TrimSpace(evt.Body)
			if evt.ProfileID == "" || body == "" {
				c.send <- ServerEvent{Type: "error", Data: "cannot send message"}
				continue
			}
			sess := c.app.Sessions.Get(c.visitorID)
			sess.Touch()
			if _, ok := sess.Store.ProfileByID(evt.ProfileID); !ok {
				c.send <- ServerEvent{Type: "error", Data: "unknown profile"}
				continue
			}

			userMsg := sess.Store.AddUserMessage(evt.ProfileID, body)
			// Echo back so every open tab updates instantly
			c.app.Hub.sendToVisitor(c.visitorID, ServerEvent{
				Type:      "message",
				ProfileID: evt.ProfileID,
				Data:      userMsg,
			})

			go answerAsBot(c.app, c.visitorID, evt.ProfileID, body)

		case "typing":
			// The bot doesn't care whether the visitor is typing.

		default:
			c.send <- ServerEvent{Type: "error", Data: "unknown message type"}
		}
	}
}

func clientWriter(c *Client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			// ping to keep the connection alive
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// answerAsBot shows a typing indicator, waits out the configured delay and
// appends the keyword-matched reply to the transcript.
func answerAsBot(app *App, visitorID, profileID, userMessage string) {
	app.Hub.sendToVisitor(visitorID, ServerEvent{Type: "typing", ProfileID: profileID})
	time.Sleep(app.BotReplyDelay)

	sess := app.Sessions.Get(visitorID)
	botMsg := sess.Store.AddBotMessage(profileID, botReply(userMessage))
	app.Hub.sendToVisitor(visitorID, ServerEvent{
		Type:      "message",
		ProfileID: profileID,
		Data:      botMsg,
	})
}

// /chats/{profileId}/messages
// GET returns the transcript (opening the chat seeds the visit greeting if
// none exists yet); POST is the REST fallback for clients without a socket
// and returns the stored user message plus the bot's reply.
func chatMessagesHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitorID, _, ok := visitorFromRequest(app.Auth, r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "chats" || parts[2] != "messages" {
			http.NotFound(w, r)
			return
		}
		profileID := parts[1]

		sess := app.Sessions.Get(visitorID)
		sess.Touch()

		switch r.Method {
		case http.MethodGet:
			sess.Store.EnsureChatFor(profileID)
			msgs := sess.Store.Chat(profileID)

			limit := 50
			if v := r.URL.Query().Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
					limit = n
				}
			}
			if len(msgs) > limit {
				msgs = msgs[len(msgs)-limit:]
			}
			writeJSON(w, http.StatusOK, msgs)

		case http.MethodPost:
			type MessageRequest struct {
				Text string `json:"text"`
			}
			var req MessageRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			req.Text = strings.TrimSpace(req.Text)
			if req.Text == "" {
				writeError(w, http.StatusBadRequest, "missing_fields")
				return
			}
			if _, ok := sess.Store.ProfileByID(profileID); !ok {
				writeError(w, http.StatusNotFound, "profile_not_found")
				return
			}

			userMsg := sess.Store.AddUserMessage(profileID, req.Text)
			botMsg := sess.Store.AddBotMessage(profileID, botReply(req.Text))
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"message": userMsg,
				"reply":   botMsg,
			})

		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	}
}
