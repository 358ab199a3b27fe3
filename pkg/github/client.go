// Package github is a minimal read-only client for the GitHub repository
// contents API, used to list the audio files of a hosted playlist folder.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "github").Logger()

// File is one entry of a contents listing.
type File struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int64  `json:"size"`
	Type        string `json:"type"` // "file" or "dir"
	DownloadURL string `json:"download_url"`
}

// Client talks to the GitHub contents API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	requestTimeout time.Duration
	maxRetries     int
}

// NewClient creates a contents API client. token may be empty for public
// repositories.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:        "https://api.github.com",
		token:          token,
		requestTimeout: 10 * time.Second,
		maxRetries:     3,
	}
}

// ListFolder fetches the contents listing of path in owner/repo at ref and
// returns the file entries. Directories and submodules are filtered out.
func (c *Client) ListFolder(ctx context.Context, owner, repo, path, ref string) ([]File, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	listURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL,
		url.PathEscape(owner), url.PathEscape(repo), path)
	if ref != "" {
		listURL += "?ref=" + url.QueryEscape(ref)
	}

	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Info().Int("attempt", attempt).Int("max", c.maxRetries).Msg("Retrying contents request")
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
		}

		req, reqErr := http.NewRequestWithContext(timeoutCtx, "GET", listURL, nil)
		if reqErr != nil {
			return nil, fmt.Errorf("failed to create request: %w", reqErr)
		}

		req.Header.Set("User-Agent", "player-backend/1.0")
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err = c.httpClient.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Contents request failed")
		} else {
			logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("Contents request returned non-OK status")
			// 404 means the folder does not exist, no point retrying.
			if resp.StatusCode == http.StatusNotFound {
				resp.Body.Close()
				return nil, fmt.Errorf("folder %s not found in %s/%s@%s", path, owner, repo, ref)
			}
			resp.Body.Close()
		}

		if attempt == c.maxRetries {
			if err != nil {
				return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			return nil, fmt.Errorf("request failed after %d attempts with status %d", attempt+1, resp.StatusCode)
		}
	}

	defer resp.Body.Close()

	var entries []File
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode contents response: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "file" {
			continue
		}
		files = append(files, entry)
	}

	logger.Info().
		Str("repo", owner+"/"+repo).
		Str("path", path).
		Int("files", len(files)).
		Msg("Listed playlist folder")
	return files, nil
}
