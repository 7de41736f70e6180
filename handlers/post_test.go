package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"postgram/config"
	"strings"
	"testing"
)

func TestPostCreateRequiresAuth(t *testing.T) {
	router := setupServer(t)
	body, contentType := postUpload(t, map[string]string{"text": "hello"}, 1)
	resp := doRequest(t, router, "POST", "/post/", body, contentType, "")
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.Code)
	}
}

func TestPostCreateWithoutImages(t *testing.T) {
	router := setupServer(t)
	_, token := createUser(t, "alice", false)
	body, contentType := postUpload(t, map[string]string{"text": "no pictures"}, 0)
	resp := doRequest(t, router, "POST", "/post/", body, contentType, token)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.Code)
	}
	listResp := doRequest(t, router, "GET", "/post/", nil, "", "")
	if listResp.Body.String() != "[]" {
		t.Errorf("post list = %s, want empty", listResp.Body.String())
	}
}

func TestPostCreateAndRetrieve(t *testing.T) {
	router := setupServer(t)
	_, token := createUser(t, "alice", false)
	info := createPost(t, router, token, map[string]string{"text": "first post"})
	if info.User != "alice" {
		t.Errorf("user = %q, want alice", info.User)
	}
	if info.LikesCount != 0 {
		t.Errorf("likes_count = %d, want 0", info.LikesCount)
	}
	if len(info.Images) != 1 {
		t.Fatalf("images = %d, want 1", len(info.Images))
	}

	// Without a location the key must be absent, not null
	retrieved := doRequest(t, router, "GET", fmt.Sprintf("/post/%d/", info.ID), nil, "", "")
	if retrieved.Code != http.StatusOK {
		t.Fatalf("retrieve status = %d", retrieved.Code)
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(retrieved.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, present := raw["location"]; present {
		t.Error("location key present on a post without coordinates")
	}

	imageResp := doRequest(t, router, "GET", info.Images[0].Image, nil, "", "")
	if imageResp.Code != http.StatusOK {
		t.Errorf("image fetch status = %d", imageResp.Code)
	}
	if imageResp.Body.Len() == 0 {
		t.Error("image fetch returned no bytes")
	}
	if cc := imageResp.Header().Get("cache-control"); cc != "private, max-age=604800" {
		t.Errorf("cache-control = %q", cc)
	}
}

func setupFakeNominatim(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		switch {
		case strings.Contains(q, "Nowhereville"):
			fmt.Fprint(w, `[]`)
		case strings.Contains(q, "Paris"):
			fmt.Fprint(w, `[{"lat":"48.856614","lon":"2.3522219","display_name":"Paris"}]`)
		default:
			fmt.Fprint(w, `[{"lat":"51.5073509","lon":"-0.1277583","display_name":"London"}]`)
		}
	})
	mux.HandleFunc("/reverse", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("lat"), "48.") {
			fmt.Fprint(w, `{"display_name":"Paris, Ile-de-France, Metropolitan France, France"}`)
			return
		}
		fmt.Fprint(w, `{"display_name":"London, Greater London, England, United Kingdom"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	config.NOMINATIM_URL = server.URL
}

func TestPostCreateWithLocation(t *testing.T) {
	router := setupServer(t)
	setupFakeNominatim(t)
	_, token := createUser(t, "alice", false)
	info := createPost(t, router, token, map[string]string{"text": "from london", "location": "London"})
	if info.Location == nil {
		t.Fatal("location missing from response")
	}
	if *info.Location != "London, Greater London, England, United Kingdom" {
		t.Errorf("location = %q, want the reverse-geocoded address", *info.Location)
	}
	// Never the raw coordinates
	if strings.Contains(*info.Location, "51.5") {
		t.Errorf("location %q leaks coordinates", *info.Location)
	}
}

func TestPostCreateNonexistentPlace(t *testing.T) {
	router := setupServer(t)
	setupFakeNominatim(t)
	_, token := createUser(t, "alice", false)
	body, contentType := postUpload(t, map[string]string{"location": "Nowhereville"}, 1)
	resp := doRequest(t, router, "POST", "/post/", body, contentType, token)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "nonexistent place") {
		t.Errorf("body = %s", resp.Body.String())
	}
	listResp := doRequest(t, router, "GET", "/post/", nil, "", "")
	if listResp.Body.String() != "[]" {
		t.Error("post persisted despite failed geocoding")
	}
}

func TestPostUpdateAndDeletePermissions(t *testing.T) {
	router := setupServer(t)
	_, aliceToken := createUser(t, "alice", false)
	_, bobToken := createUser(t, "bob", false)
	_, staffToken := createUser(t, "root", true)
	info := createPost(t, router, aliceToken, map[string]string{"text": "original"})
	url := fmt.Sprintf("/post/%d/", info.ID)

	resp := doRequest(t, router, "PATCH", url, bytes.NewBufferString(`{"text":"defaced"}`), "application/json", bobToken)
	if resp.Code != http.StatusForbidden {
		t.Errorf("non-owner update status = %d, want 403", resp.Code)
	}

	resp = doRequest(t, router, "PATCH", url, bytes.NewBufferString(`{"text":"edited"}`), "application/json", aliceToken)
	if resp.Code != http.StatusOK {
		t.Fatalf("owner update status = %d, body %s", resp.Code, resp.Body.String())
	}
	updated := PostInfo{}
	_ = json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Text != "edited" {
		t.Errorf("text = %q, want edited", updated.Text)
	}

	resp = doRequest(t, router, "DELETE", url, nil, "", bobToken)
	if resp.Code != http.StatusForbidden {
		t.Errorf("non-owner delete status = %d, want 403", resp.Code)
	}
	resp = doRequest(t, router, "DELETE", url, nil, "", staffToken)
	if resp.Code != http.StatusNoContent {
		t.Errorf("staff delete status = %d, want 204", resp.Code)
	}
	resp = doRequest(t, router, "GET", url, nil, "", "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("retrieve after delete status = %d, want 404", resp.Code)
	}
}

func TestPostUpdateLocation(t *testing.T) {
	router := setupServer(t)
	setupFakeNominatim(t)
	_, token := createUser(t, "alice", false)
	info := createPost(t, router, token, map[string]string{"text": "travelling"})
	url := fmt.Sprintf("/post/%d/", info.ID)

	// Setting a location on update geocodes it like create does
	resp := doRequest(t, router, "PATCH", url, bytes.NewBufferString(`{"location":"Paris"}`), "application/json", token)
	if resp.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", resp.Code, resp.Body.String())
	}
	updated := PostInfo{}
	if err := json.Unmarshal(resp.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if updated.Location == nil {
		t.Fatal("location missing after update")
	}
	if *updated.Location != "Paris, Ile-de-France, Metropolitan France, France" {
		t.Errorf("location = %q, want the reverse-geocoded address", *updated.Location)
	}

	// An empty location clears the coordinates
	resp = doRequest(t, router, "PATCH", url, bytes.NewBufferString(`{"location":""}`), "application/json", token)
	if resp.Code != http.StatusOK {
		t.Fatalf("clearing status = %d, body %s", resp.Code, resp.Body.String())
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, present := raw["location"]; present {
		t.Error("location key present after clearing")
	}

	// An unknown place fails validation and leaves the post untouched
	resp = doRequest(t, router, "PATCH", url, bytes.NewBufferString(`{"location":"Nowhereville"}`), "application/json", token)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown place status = %d, want 400", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "nonexistent place") {
		t.Errorf("body = %s", resp.Body.String())
	}
	retrieved := doRequest(t, router, "GET", url, nil, "", "")
	raw = map[string]json.RawMessage{}
	if err := json.Unmarshal(retrieved.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, present := raw["location"]; present {
		t.Error("failed update changed the stored location")
	}
}

func TestPostTextTooLong(t *testing.T) {
	router := setupServer(t)
	_, token := createUser(t, "alice", false)
	body, contentType := postUpload(t, map[string]string{"text": strings.Repeat("a", 257)}, 1)
	resp := doRequest(t, router, "POST", "/post/", body, contentType, token)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.Code)
	}
}
