package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 1 * time.Second},
		baseURL:        baseURL,
		requestTimeout: 5 * time.Second,
		maxRetries:     3,
	}
}

func TestListFolderFiltersDirectories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/alice/music/contents/albums" {
			t.Errorf("unexpected request path %q", r.URL.Path)
		}
		if r.URL.Query().Get("ref") != "main" {
			t.Errorf("unexpected ref %q", r.URL.Query().Get("ref"))
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[
			{"name":"covers","path":"albums/covers","type":"dir"},
			{"name":"Artist - Song.mp3","path":"albums/Artist - Song.mp3","type":"file","size":123,"sha":"abc","download_url":"https://example.com/a.mp3"},
			{"name":"notes.txt","path":"albums/notes.txt","type":"file","size":5,"sha":"def","download_url":"https://example.com/n.txt"}
		]`))
	}))
	defer server.Close()

	files, err := testClient(server.URL).ListFolder(context.Background(), "alice", "music", "albums", "main")
	if err != nil {
		t.Fatalf("ListFolder failed: %v", err)
	}

	// Only type filtering happens here; extension filtering is the loader's job.
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Name != "Artist - Song.mp3" || files[0].DownloadURL != "https://example.com/a.mp3" {
		t.Errorf("unexpected first file: %+v", files[0])
	}
}

func TestListFolderRetries(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"name":"a.mp3","type":"file"}]`))
	}))
	defer server.Close()

	files, err := testClient(server.URL).ListFolder(context.Background(), "o", "r", "p", "")
	if err != nil {
		t.Fatalf("expected retries to succeed, got: %v", err)
	}
	if requestCount != 3 {
		t.Errorf("expected 3 requests, got %d", requestCount)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}
}

func TestListFolderNotFoundDoesNotRetry(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).ListFolder(context.Background(), "o", "r", "missing", "main")
	if err == nil {
		t.Fatal("expected an error for a missing folder")
	}
	if requestCount != 1 {
		t.Errorf("expected a single request for 404, got %d", requestCount)
	}
}
