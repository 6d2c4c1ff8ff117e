package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// App bundles the long-lived dependencies handed to every handler.
type App struct {
	Auth     *AuthConfig
	Sessions *Sessions
	Gist     *GistClient
	Hub      *Hub

	GithubToken   string
	PhotoDir      string
	BotReplyDelay time.Duration
}

func newApp(auth *AuthConfig, sessions *Sessions, gist *GistClient) *App {
	return &App{
		Auth:          auth,
		Sessions:      sessions,
		Gist:          gist,
		Hub:           newHub(),
		GithubToken:   os.Getenv("GITHUB_TOKEN"),
		PhotoDir:      "./uploads/photos",
		BotReplyDelay: 1200 * time.Millisecond,
	}
}

// newMux wires every route. Split out of main so tests can mount the whole
// surface on an httptest server.
func newMux(app *App) *http.ServeMux {
	mux := http.NewServeMux()

	// Sessions & admin auth
	mux.Handle("/session", sessionHandler(app))
	mux.Handle("/admin/login", adminLoginHandler(app))

	// Ping: mark this visitor as active "now"
	mux.Handle("/me/ping", mePingHandler(app)) // POST

	// Deck, swiping, matches
	mux.Handle("/deck", deckHandler(app))
	mux.Handle("/deck/swipe", swipeHandler(app))
	mux.Handle("/deck/undo", undoHandler(app))
	mux.Handle("/matches", matchesHandler(app))

	// The visitor's own profile and photo
	mux.Handle("/me/profile", meProfileHandler(app))
	mux.Handle("/me/profile/complete", completeProfileHandler(app))
	mux.Handle("/me/photo", myPhotoHandler(app))
	mux.Handle("/photos/", getPhotoHandler(app))

	// Profile catalog & Gist persistence
	mux.Handle("/profiles", profilesHandler(app))
	mux.Handle("/profiles/", profilesDispatcher(app))
	mux.Handle("/gist/publish", publishGistHandler(app))
	mux.Handle("/gist/load", loadGistHandler(app))

	// WebSocket chat endpoint
	mux.Handle("/ws/chat", wsChatHandler(app))

	// Message history, sidebar summary, read receipts
	mux.Handle("/chats/", chatMessagesHandler(app))
	mux.Handle("/chats/summary", chatSummaryHandler(app))
	mux.Handle("/chats/read", chatsMarkReadHandler(app))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

// loadCatalog reads the startup profile list from the configured Gist,
// falling back to generated activist profiles when unset or unreachable.
func loadCatalog(gist *GistClient) []Profile {
	if gistID := os.Getenv("GIST_ID"); gistID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), gistCallTimeout)
		defer cancel()
		res := gist.ReadProfiles(ctx, gistID)
		if res.Success {
			gist.SetGistID(gistID)
			log.Printf("Loaded %d profiles from Gist %s", len(res.Profiles), gistID)
			return res.Profiles
		}
		log.Println("Gist read failed, falling back to generated profiles:", res.Error)
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return GenerateFakeProfiles(r, 12)
}

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load(".env")

	auth := newAuthConfigFromEnv()
	gist := NewGistClient(os.Getenv("GIST_API_URL"))
	sessions := NewSessions(loadCatalog(gist), 0)
	app := newApp(auth, sessions, gist)

	if err := os.MkdirAll(app.PhotoDir, 0o755); err != nil {
		log.Fatal("Error creating photo upload directory:", err)
	}

	done := make(chan struct{})
	defer close(done)
	go sessions.Janitor(time.Minute, done)

	frontendOrigin := os.Getenv("FRONTEND_ORIGIN")
	if frontendOrigin == "" {
		frontendOrigin = "http://localhost:5173"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PayeTonGréviste backend on port %s...", port)
	if err := http.ListenAndServe(":"+port, withCORS(newMux(app), frontendOrigin)); err != nil {
		log.Fatal("Server error:", err)
	}
}
