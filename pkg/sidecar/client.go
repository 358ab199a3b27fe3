// Package sidecar serves lyrics from local .lrc files indexed under a
// configured folder. It is the zero-network head of the provider chain.
package sidecar

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "sidecar").Logger()

// normalizer strips punctuation that commonly differs between file names and
// tag metadata before matching.
var normalizer = strings.NewReplacer(
	"_", " ", "-", " ",
	",", "", ".", "",
	"!", "", "?", "",
	"(", "", ")", "",
	"[", "", "]", "",
	"'", "",
)

// Client indexes a folder of .lrc files at construction time.
type Client struct {
	folder string
	index  []string // absolute paths
}

// New walks folder and indexes every .lrc file beneath it. A missing folder
// yields an empty index, not an error, so the provider chain simply falls
// through.
func New(folder string) (*Client, error) {
	if strings.HasPrefix(folder, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			folder = filepath.Join(home, folder[2:])
		}
	}

	client := &Client{folder: folder}
	if folder == "" {
		return client, nil
	}

	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".lrc") {
			return nil
		}
		client.index = append(client.index, path)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("folder", folder).Msg("Sidecar folder does not exist")
			return client, nil
		}
		return nil, fmt.Errorf("failed to index sidecar folder %s: %w", folder, err)
	}

	logger.Info().Str("folder", folder).Int("files", len(client.index)).Msg("Sidecar index built")
	return client, nil
}

// ProviderName identifies the provider in logs.
func (c *Client) ProviderName() string {
	return "Sidecar"
}

// SearchSong resolves a track to the path of a matching .lrc file. Matching
// tries "Artist - Title", then bare title, exact first and normalized second.
func (c *Client) SearchSong(ctx context.Context, title, artist string) (string, error) {
	candidates := []string{title}
	if artist != "" {
		candidates = []string{artist + " - " + title, title}
	}

	for _, want := range candidates {
		for _, path := range c.index {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if strings.EqualFold(name, want) || normalize(name) == normalize(want) {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("no sidecar lyrics for '%s - %s'", artist, title)
}

// GetLyrics reads the .lrc file found by SearchSong.
func (c *Client) GetLyrics(ctx context.Context, songID string) (string, error) {
	content, err := os.ReadFile(songID)
	if err != nil {
		return "", fmt.Errorf("failed to read sidecar file %s: %w", songID, err)
	}
	logger.Info().Str("path", songID).Msg("Loaded sidecar lyrics")
	return string(content), nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(normalizer.Replace(strings.ToLower(s))), " ")
}
