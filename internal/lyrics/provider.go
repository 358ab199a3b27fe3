package lyrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"player-backend/internal/meta"
	"player-backend/pkg/fileutil"
)

var logger = log.With().Str("component", "lyrics").Logger()

// Fetcher resolves track metadata to raw LRC text. lyricsource.Manager is
// the production implementation.
type Fetcher interface {
	GetLyricsByInfo(ctx context.Context, title, artist string, duration float64) (string, error)
}

// Provider fetches raw LRC text for a resolved song, serving the .lrc file
// cache first and the provider chain on a miss.
type Provider struct {
	cacheDir string
	manager  Fetcher
}

// NewProvider creates a provider writing cached lyrics under cacheDir.
func NewProvider(cacheDir string, manager Fetcher) *Provider {
	return &Provider{
		cacheDir: cacheDir,
		manager:  manager,
	}
}

// GetLyrics returns the raw LRC text for info. A cache hit skips the network
// entirely; a fetched result is cached best-effort.
func (p *Provider) GetLyrics(ctx context.Context, info meta.SongInfo) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	cacheFilename := sanitizeFilename(info.Title+"-"+info.Artist) + ".lrc"
	cacheFilepath := filepath.Join(p.cacheDir, cacheFilename)

	if cachedLyrics, readErr := os.ReadFile(cacheFilepath); readErr == nil {
		logger.Info().Str("path", cacheFilepath).Msg("Lyrics cache hit")
		return string(cachedLyrics), nil
	}
	logger.Info().
		Str("title", info.Title).
		Str("artist", info.Artist).
		Msg("Lyrics cache miss, fetching from providers")

	lyricsText, err := p.manager.GetLyricsByInfo(ctx, info.Title, info.Artist, info.Duration)
	if err != nil {
		return "", fmt.Errorf("failed to get lyrics for '%s - %s': %w", info.Title, info.Artist, err)
	}

	if err := fileutil.WriteFileOverwrite(cacheFilepath, []byte(lyricsText), 0644); err != nil {
		logger.Error().Err(err).Str("path", cacheFilepath).Msg("Failed to write lyrics cache file")
	}

	return lyricsText, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

func sanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "-")
}
