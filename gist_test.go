package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
)

// fakeGistAPI is an in-memory stand-in for the GitHub Gists endpoint.
type fakeGistAPI struct {
	mu    sync.Mutex
	gists map[string]map[string]gistFile
	next  int
}

func newFakeGistAPI(t *testing.T) (*fakeGistAPI, *httptest.Server) {
	t.Helper()
	f := &fakeGistAPI{gists: make(map[string]map[string]gistFile)}
	srv := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeGistAPI) seed(id string, files map[string]gistFile) {
	f.mu.Lock()
	f.gists[id] = files
	f.mu.Unlock()
}

func (f *fakeGistAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	respond := func(status int, id string, files map[string]gistFile) {
		writeJSON(w, status, map[string]any{
			"id":       id,
			"html_url": "https://gist.github.com/" + id,
			"files":    files,
		})
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/":
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Requires authentication"})
			return
		}
		var p gistPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid request"})
			return
		}
		f.next++
		id := fmt.Sprintf("gist-%d", f.next)
		f.gists[id] = p.Files
		respond(http.StatusCreated, id, p.Files)

	case r.Method == http.MethodPatch:
		id := strings.TrimPrefix(r.URL.Path, "/")
		files, ok := f.gists[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		var p gistPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid request"})
			return
		}
		for name, file := range p.Files {
			files[name] = file
		}
		respond(http.StatusOK, id, files)

	case r.Method == http.MethodGet:
		id := strings.TrimPrefix(r.URL.Path, "/")
		files, ok := f.gists[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		respond(http.StatusOK, id, files)

	default:
		http.NotFound(w, r)
	}
}

func TestGistRoundTrip(t *testing.T) {
	_, srv := newFakeGistAPI(t)
	client := NewGistClient(srv.URL)
	profiles := testCatalog()

	res := client.CreateGist(context.Background(), profiles, "pat-123", "")
	if !res.Success {
		t.Fatalf("Expected create to succeed, got error %q", res.Error)
	}
	if res.GistURL == "" {
		t.Error("Expected a gist url")
	}
	if client.GistID() == "" {
		t.Fatal("Expected the created gist id to be recorded")
	}

	read := client.ReadProfiles(context.Background(), client.GistID())
	if !read.Success {
		t.Fatalf("Expected read to succeed, got error %q", read.Error)
	}
	if !reflect.DeepEqual(read.Profiles, profiles) {
		t.Errorf("Round trip mismatch:\nwrote %+v\nread  %+v", profiles, read.Profiles)
	}
}

func TestUpdateGist(t *testing.T) {
	t.Run("Without a recorded id", func(t *testing.T) {
		_, srv := newFakeGistAPI(t)
		client := NewGistClient(srv.URL)

		res := client.UpdateGist(context.Background(), testCatalog(), "pat-123")
		if res.Success {
			t.Fatal("Expected update to fail without a gist id")
		}
		if res.Error != "Aucun Gist ID configuré" {
			t.Errorf("Expected the missing-id error, got %q", res.Error)
		}
	})

	t.Run("Replaces the stored collection", func(t *testing.T) {
		_, srv := newFakeGistAPI(t)
		client := NewGistClient(srv.URL)

		if res := client.CreateGist(context.Background(), testCatalog()[:1], "pat-123", ""); !res.Success {
			t.Fatalf("Create failed: %q", res.Error)
		}
		if res := client.UpdateGist(context.Background(), testCatalog(), "pat-123"); !res.Success {
			t.Fatalf("Update failed: %q", res.Error)
		}

		read := client.ReadProfiles(context.Background(), client.GistID())
		if !read.Success || len(read.Profiles) != 3 {
			t.Errorf("Expected 3 profiles after update, got %d (error %q)", len(read.Profiles), read.Error)
		}
	})
}

func TestReadProfilesErrors(t *testing.T) {
	t.Run("Unknown gist", func(t *testing.T) {
		_, srv := newFakeGistAPI(t)
		client := NewGistClient(srv.URL)

		res := client.ReadProfiles(context.Background(), "nope")
		if res.Success {
			t.Fatal("Expected read to fail for unknown gist")
		}
		if res.Error != "Not Found" {
			t.Errorf("Expected Not Found, got %q", res.Error)
		}
	})

	t.Run("Gist without profiles.json", func(t *testing.T) {
		f, srv := newFakeGistAPI(t)
		f.seed("other", map[string]gistFile{"notes.txt": {Content: "rien"}})
		client := NewGistClient(srv.URL)

		res := client.ReadProfiles(context.Background(), "other")
		if res.Success {
			t.Fatal("Expected read to fail without profiles.json")
		}
		if res.Error != "Aucun fichier profiles.json trouvé dans le Gist" {
			t.Errorf("Expected the missing-file error, got %q", res.Error)
		}
	})

	t.Run("Invalid JSON content", func(t *testing.T) {
		f, srv := newFakeGistAPI(t)
		f.seed("bad", map[string]gistFile{gistProfilesFile: {Content: "{not json"}})
		client := NewGistClient(srv.URL)

		if res := client.ReadProfiles(context.Background(), "bad"); res.Success {
			t.Error("Expected read to fail on invalid JSON")
		}
	})
}

func TestReadProfilesDefaultsLocation(t *testing.T) {
	f, srv := newFakeGistAPI(t)
	f.seed("legacy", map[string]gistFile{
		gistProfilesFile: {Content: `[{"id":"p1","name":"Léa","age":30}]`},
	})
	client := NewGistClient(srv.URL)

	res := client.ReadProfiles(context.Background(), "legacy")
	if !res.Success {
		t.Fatalf("Expected read to succeed, got %q", res.Error)
	}
	if res.Profiles[0].Location != parisLocation {
		t.Errorf("Expected missing location to default to Paris, got %+v", res.Profiles[0].Location)
	}
}

func TestCreateGistRequiresToken(t *testing.T) {
	_, srv := newFakeGistAPI(t)
	client := NewGistClient(srv.URL)

	res := client.CreateGist(context.Background(), testCatalog(), "", "")
	if res.Success {
		t.Fatal("Expected create to fail without a token")
	}
	if res.Error != "Requires authentication" {
		t.Errorf("Expected the API error message, got %q", res.Error)
	}
	if client.GistID() != "" {
		t.Error("Expected no gist id recorded after failure")
	}
}
