package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const testAdminPassphrase = "test-passphrase"

// testCatalog returns three fixed profiles in Paris, Lyon and Marseille.
func testCatalog() []Profile {
	return []Profile{
		{
			ID:       "profile-paris",
			Name:     "Marie Durand",
			Age:      29,
			Bio:      "Militante engagée pour un monde plus juste.",
			PhotoURL: "https://example.com/marie.jpg",
			Location: LatLng{Lat: 48.8566, Lon: 2.3522},
			StrikeFund: StrikeFund{
				ID:            "fund-paris",
				URL:           "https://www.helloasso.com/fonds-transport",
				Title:         "Fonds de Grève des Transports Parisiens",
				Description:   "Soutenez notre mouvement.",
				Category:      "Transport",
				Urgency:       "Élevée",
				CurrentAmount: 500,
				TargetAmount:  1000,
			},
		},
		{
			ID:       "profile-lyon",
			Name:     "Jean Moreau",
			Age:      41,
			Bio:      "Défenseur des droits des travailleurs.",
			PhotoURL: "https://example.com/jean.jpg",
			Location: LatLng{Lat: 45.7640, Lon: 4.8357},
			StrikeFund: StrikeFund{
				ID:            "fund-lyon",
				URL:           "https://www.helloasso.com/fonds-education",
				Title:         "Soutien aux Enseignants en Lutte",
				Description:   "Chaque don compte.",
				Category:      "Éducation",
				Urgency:       "Moyenne",
				CurrentAmount: 2500,
				TargetAmount:  20000,
			},
		},
		{
			ID:       "profile-marseille",
			Name:     "Sophie Garnier",
			Age:      35,
			Bio:      "Activiste convaincue que le changement est possible.",
			PhotoURL: "https://example.com/sophie.jpg",
			Location: LatLng{Lat: 43.2965, Lon: 5.3698},
			StrikeFund: StrikeFund{
				ID:            "fund-marseille",
				URL:           "https://www.helloasso.com/fonds-sante",
				Title:         "Aide aux Soignants en Grève",
				Description:   "Votre solidarité nous donne la force de continuer.",
				Category:      "Santé",
				Urgency:       "Critique",
				CurrentAmount: 12000,
				TargetAmount:  30000,
			},
		},
	}
}

func newTestAuth(t *testing.T) *AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassphrase), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test passphrase: %v", err)
	}
	return &AuthConfig{
		Secret:              []byte("test-secret-key-for-testing"),
		AdminPassphraseHash: hash,
		TokenTTL:            time.Hour,
	}
}

// newTestApp builds an App with a fixed catalog, a temp photo directory and
// a near-instant bot.
func newTestApp(t *testing.T) *App {
	t.Helper()
	return &App{
		Auth:          newTestAuth(t),
		Sessions:      NewSessions(testCatalog(), time.Hour),
		Gist:          NewGistClient(""),
		Hub:           newHub(),
		PhotoDir:      t.TempDir(),
		BotReplyDelay: time.Millisecond,
	}
}

func visitorToken(t *testing.T, app *App, visitorID string) string {
	t.Helper()
	tok, err := app.Auth.newToken(visitorID, false)
	if err != nil {
		t.Fatalf("Failed to create visitor token: %v", err)
	}
	return tok
}

func adminToken(t *testing.T, app *App, visitorID string) string {
	t.Helper()
	tok, err := app.Auth.newToken(visitorID, true)
	if err != nil {
		t.Fatalf("Failed to create admin token: %v", err)
	}
	return tok
}

// doJSON performs one request against the test server and returns the
// response along with its fully-read body.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, data
}
