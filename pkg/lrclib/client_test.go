package lrclib

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
		maxRetries:     2,
	}
}

func TestGetLyricsByInfoPrefersSynced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("track_name"); got != "Song" {
			t.Errorf("unexpected track_name %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[
			{"trackName":"Song","artistName":"Artist","duration":180,"plainLyrics":"plain","syncedLyrics":"[00:01.00]synced"}
		]`))
	}))
	defer server.Close()

	lyrics, err := testClient(server.URL).GetLyricsByInfo(context.Background(), "Song", "Artist", 180)
	if err != nil {
		t.Fatalf("GetLyricsByInfo failed: %v", err)
	}
	if lyrics != "[00:01.00]synced" {
		t.Errorf("expected synced lyrics, got %q", lyrics)
	}
}

func TestGetLyricsByInfoRetries(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		if requestCount == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"trackName":"Song","artistName":"Artist","plainLyrics":"words"}]`))
	}))
	defer server.Close()

	lyrics, err := testClient(server.URL).GetLyricsByInfo(context.Background(), "Song", "Artist", 0)
	if err != nil {
		t.Fatalf("expected retry to succeed, got: %v", err)
	}
	if requestCount != 2 {
		t.Errorf("expected 2 requests, got %d", requestCount)
	}
	if lyrics != "words" {
		t.Errorf("expected plain lyrics fallback, got %q", lyrics)
	}
}

func TestGetLyricsByInfoNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).GetLyricsByInfo(context.Background(), "Nope", "Nobody", 0); err == nil {
		t.Fatal("expected error when no results match")
	}
}

func TestFindBestMatchDuration(t *testing.T) {
	results := []SearchResult{
		{TrackName: "Song", ArtistName: "Artist", Duration: 300, SyncedLyrics: "long"},
		{TrackName: "Song", ArtistName: "Artist", Duration: 181, SyncedLyrics: "close"},
		{TrackName: "Song", ArtistName: "Other", Duration: 180, SyncedLyrics: "wrong artist"},
	}

	best := findBestMatch(results, "Song", "Artist", 180)
	if best.SyncedLyrics != "close" {
		t.Errorf("expected duration-closest exact match, got %q", best.SyncedLyrics)
	}
}

func TestFindBestMatchFallsBackToTitleOnly(t *testing.T) {
	results := []SearchResult{
		{TrackName: "Unrelated", ArtistName: "Nobody", SyncedLyrics: "no"},
		{TrackName: "Song (Live)", ArtistName: "Somebody Else", SyncedLyrics: "title match"},
	}

	best := findBestMatch(results, "Song", "Artist", 0)
	if best.SyncedLyrics != "title match" {
		t.Errorf("expected title-only match, got %q", best.SyncedLyrics)
	}
}
