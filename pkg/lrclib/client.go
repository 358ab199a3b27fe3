// Package lrclib fetches time-synced lyrics from the lrclib.net public API.
package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "lrclib").Logger()

// Client talks to the lrclib.net search API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	requestTimeout time.Duration
	maxRetries     int
}

// SearchResult is one entry of an lrclib search response.
type SearchResult struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	AlbumName    string `json:"albumName"`
	Duration     int    `json:"duration"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
	SyncedLyrics string `json:"syncedLyrics"`
}

// NewClient creates an lrclib client with sane timeouts.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:        "https://lrclib.net/api",
		requestTimeout: 5 * time.Second,
		maxRetries:     3,
	}
}

// ProviderName identifies the provider in logs.
func (c *Client) ProviderName() string {
	return "LRCLib"
}

// SearchSong satisfies the provider interface. lrclib needs no separate
// search step, so the "song id" is just the query packed as title|artist.
func (c *Client) SearchSong(ctx context.Context, title, artist string) (string, error) {
	return fmt.Sprintf("%s|%s", title, artist), nil
}

// GetLyrics fetches lyrics for a packed title|artist id.
func (c *Client) GetLyrics(ctx context.Context, songID string) (string, error) {
	title, artist, found := strings.Cut(songID, "|")
	if !found {
		return "", fmt.Errorf("invalid song ID format: %s", songID)
	}
	return c.getLyricsByInfo(ctx, title, artist, 0)
}

// GetLyricsByInfo fetches lyrics directly from track metadata, using the
// duration (seconds) to pick among ambiguous results.
func (c *Client) GetLyricsByInfo(ctx context.Context, title, artist string, duration float64) (string, error) {
	return c.getLyricsByInfo(ctx, title, artist, int(duration))
}

func (c *Client) getLyricsByInfo(ctx context.Context, title, artist string, duration int) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("track_name", title)
	params.Set("artist_name", artist)

	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Info().Int("attempt", attempt).Int("max", c.maxRetries).Msg("Retrying request")
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
		}

		req, reqErr := http.NewRequestWithContext(timeoutCtx, "GET", searchURL, nil)
		if reqErr != nil {
			return "", fmt.Errorf("failed to create request: %w", reqErr)
		}

		req.Header.Set("User-Agent", "player-backend/1.0")

		resp, err = c.httpClient.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Request failed")
		} else {
			logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("Request returned non-OK status")
			resp.Body.Close()
		}

		if attempt == c.maxRetries {
			if err != nil {
				return "", fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			return "", fmt.Errorf("request failed after %d attempts with status %d", attempt+1, resp.StatusCode)
		}
	}

	defer resp.Body.Close()

	var results []SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	logger.Info().
		Int("results", len(results)).
		Str("title", title).
		Str("artist", artist).
		Msg("Search finished")

	if len(results) == 0 {
		return "", fmt.Errorf("no lyrics found for '%s - %s'", title, artist)
	}

	bestMatch := findBestMatch(results, title, artist, duration)

	if bestMatch.SyncedLyrics != "" {
		logger.Info().
			Str("track", bestMatch.TrackName).
			Str("artist", bestMatch.ArtistName).
			Int("duration", bestMatch.Duration).
			Int("target_duration", duration).
			Msg("Selected synced lyrics")
		return bestMatch.SyncedLyrics, nil
	}

	if bestMatch.PlainLyrics != "" {
		logger.Info().
			Str("track", bestMatch.TrackName).
			Str("artist", bestMatch.ArtistName).
			Msg("Selected plain lyrics")
		return bestMatch.PlainLyrics, nil
	}

	return "", fmt.Errorf("selected result has no lyrics for '%s - %s'", title, artist)
}

// findBestMatch narrows results by title+artist containment, then by closest
// duration. A result within 3 seconds of the target duration is accepted
// immediately.
func findBestMatch(results []SearchResult, targetTitle, targetArtist string, targetDuration int) *SearchResult {
	var exactMatches []*SearchResult
	var titleMatches []*SearchResult

	for i := range results {
		result := &results[i]
		if containsIgnoreCase(result.TrackName, targetTitle) && containsIgnoreCase(result.ArtistName, targetArtist) {
			exactMatches = append(exactMatches, result)
		} else if containsIgnoreCase(result.TrackName, targetTitle) {
			titleMatches = append(titleMatches, result)
		}
	}

	matchPool := exactMatches
	if len(matchPool) == 0 {
		matchPool = titleMatches
	}
	if len(matchPool) == 0 {
		matchPool = make([]*SearchResult, len(results))
		for i := range results {
			matchPool[i] = &results[i]
		}
	}

	if targetDuration > 0 {
		const maxDurationDiff = 3 // seconds
		bestMatch := matchPool[0]
		minDiff := abs(bestMatch.Duration - targetDuration)

		for _, m := range matchPool {
			diff := abs(m.Duration - targetDuration)
			if diff <= maxDurationDiff {
				return m
			}
			if diff < minDiff {
				minDiff = diff
				bestMatch = m
			}
		}
		return bestMatch
	}

	return matchPool[0]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
