package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	githubGistAPI          = "https://api.github.com/gists"
	gistProfilesFile       = "profiles.json"
	defaultGistDescription = "PayeTonGréviste - Profils d'activistes"
)

// GistClient talks to the GitHub Gists REST API, storing the whole profile
// collection as one pretty-printed JSON array in a profiles.json file.
// One request per call, no retries, no pagination. Failures come back
// inside the result struct, never as a thrown error past this boundary.
type GistClient struct {
	baseURL string
	httpc   *http.Client

	mu     sync.Mutex
	gistID string
}

// NewGistClient returns a client against the given API base URL.
// An empty baseURL selects the real GitHub endpoint.
func NewGistClient(baseURL string) *GistClient {
	if baseURL == "" {
		baseURL = githubGistAPI
	}
	return &GistClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// GistResult is the outcome of a create or update call.
type GistResult struct {
	Success bool   `json:"success"`
	GistURL string `json:"gistUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReadProfilesResult is the outcome of a read call.
type ReadProfilesResult struct {
	Success  bool      `json:"success"`
	Profiles []Profile `json:"profiles,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type gistFile struct {
	Content string `json:"content"`
}

type gistPayload struct {
	Description string              `json:"description,omitempty"`
	Public      bool                `json:"public,omitempty"`
	Files       map[string]gistFile `json:"files"`
}

// gistResponse covers both the success body (id, html_url, files) and the
// API error body (message).
type gistResponse struct {
	ID      string              `json:"id"`
	HTMLURL string              `json:"html_url"`
	Files   map[string]gistFile `json:"files"`
	Message string              `json:"message"`
}

// SetGistID records the gist used by UpdateGist. No format validation.
func (c *GistClient) SetGistID(id string) {
	c.mu.Lock()
	c.gistID = id
	c.mu.Unlock()
}

// GistID returns the currently recorded gist id, empty if none.
func (c *GistClient) GistID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gistID
}

// CreateGist POSTs a new public gist holding the profile array and records
// its id for later updates.
func (c *GistClient) CreateGist(ctx context.Context, profiles []Profile, token, description string) GistResult {
	if description == "" {
		description = defaultGistDescription
	}
	content, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return GistResult{Error: err.Error()}
	}
	payload := gistPayload{
		Description: description,
		Public:      true,
		Files:       map[string]gistFile{gistProfilesFile: {Content: string(content)}},
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL, token, &payload)
	if err != nil {
		return GistResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	body, ok := decodeGistResponse(resp)
	if !ok {
		return GistResult{Error: apiErrorMessage(body, "Erreur lors de la création du Gist")}
	}

	id := body.ID
	if id == "" {
		// Older API responses only carry html_url; the id is its last segment.
		parts := strings.Split(body.HTMLURL, "/")
		id = parts[len(parts)-1]
	}
	c.SetGistID(id)

	return GistResult{Success: true, GistURL: body.HTMLURL}
}

// UpdateGist PATCHes the previously recorded gist with the new profile
// array. Fails with a distinguished error when no gist id has been set.
func (c *GistClient) UpdateGist(ctx context.Context, profiles []Profile, token string) GistResult {
	id := c.GistID()
	if id == "" {
		return GistResult{Error: "Aucun Gist ID configuré"}
	}

	content, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return GistResult{Error: err.Error()}
	}
	payload := gistPayload{
		Files: map[string]gistFile{gistProfilesFile: {Content: string(content)}},
	}

	resp, err := c.do(ctx, http.MethodPatch, c.baseURL+"/"+id, token, &payload)
	if err != nil {
		return GistResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	body, ok := decodeGistResponse(resp)
	if !ok {
		return GistResult{Error: apiErrorMessage(body, "Erreur lors de la mise à jour du Gist")}
	}
	return GistResult{Success: true, GistURL: body.HTMLURL}
}

// ReadProfiles GETs a gist and parses its profiles.json file. Reading a
// public gist needs no token.
func (c *GistClient) ReadProfiles(ctx context.Context, gistID string) ReadProfilesResult {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/"+gistID, "", nil)
	if err != nil {
		return ReadProfilesResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	body, ok := decodeGistResponse(resp)
	if !ok {
		return ReadProfilesResult{Error: apiErrorMessage(body, "Not Found")}
	}

	file, ok := body.Files[gistProfilesFile]
	if !ok || file.Content == "" {
		return ReadProfilesResult{Error: "Aucun fichier profiles.json trouvé dans le Gist"}
	}

	var profiles []Profile
	if err := json.Unmarshal([]byte(file.Content), &profiles); err != nil {
		return ReadProfilesResult{Error: err.Error()}
	}

	// Some historical writers omitted coordinates; default those to Paris
	// so every profile stays location-tagged.
	for i := range profiles {
		if profiles[i].Location == (LatLng{}) {
			profiles[i].Location = parisLocation
		}
	}

	return ReadProfilesResult{Success: true, Profiles: profiles}
}

func (c *GistClient) do(ctx context.Context, method, url, token string, payload *gistPayload) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpc.Do(req)
}

// decodeGistResponse parses the response body and reports whether the call
// succeeded at the HTTP level.
func decodeGistResponse(resp *http.Response) (gistResponse, bool) {
	var body gistResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return body, resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func apiErrorMessage(body gistResponse, fallback string) string {
	if body.Message != "" {
		return body.Message
	}
	return fallback
}
