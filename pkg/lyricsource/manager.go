package lyricsource

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

var logger = log.With().Str("component", "lyrics-manager").Logger()

// Manager runs an ordered provider list and fails over in order.
type Manager struct {
	providers []LyricsAPI
	primary   LyricsAPI
}

// NewManager creates a manager. The first provider is the primary one.
func NewManager(providers []LyricsAPI) *Manager {
	if len(providers) == 0 {
		logger.Warn().Msg("No lyrics providers configured")
		return &Manager{}
	}

	primary := providers[0]
	logger.Info().
		Int("provider_count", len(providers)).
		Str("primary_provider", primary.ProviderName()).
		Msg("Lyrics manager initialized")

	return &Manager{
		providers: providers,
		primary:   primary,
	}
}

// GetLyricsByInfo fetches lyrics for a track, trying each provider in turn.
// Duration-aware providers get the full metadata in a single call; the rest
// go through search-then-fetch.
func (m *Manager) GetLyricsByInfo(ctx context.Context, title, artist string, duration float64) (string, error) {
	if len(m.providers) == 0 {
		return "", fmt.Errorf("no lyrics providers available")
	}

	var lastErr error
	for i, provider := range m.providers {
		logger.Info().
			Str("title", title).
			Str("artist", artist).
			Float64("duration", duration).
			Str("provider", provider.ProviderName()).
			Int("attempt", i+1).
			Int("total_providers", len(m.providers)).
			Msg("Trying to get lyrics")

		if infoProvider, ok := provider.(DurationAwareAPI); ok {
			lyrics, err := infoProvider.GetLyricsByInfo(ctx, title, artist, duration)
			if err == nil {
				logger.Info().Str("provider", provider.ProviderName()).Msg("Successfully got lyrics")
				return lyrics, nil
			}
			logger.Warn().Str("provider", provider.ProviderName()).Err(err).Msg("Provider failed")
			lastErr = err
			continue
		}

		songID, err := provider.SearchSong(ctx, title, artist)
		if err != nil {
			logger.Warn().Str("provider", provider.ProviderName()).Err(err).Msg("Provider search failed")
			lastErr = err
			continue
		}

		lyrics, err := provider.GetLyrics(ctx, songID)
		if err != nil {
			logger.Warn().
				Str("provider", provider.ProviderName()).
				Str("song_id", songID).
				Err(err).
				Msg("Provider get lyrics failed")
			lastErr = err
			continue
		}

		logger.Info().
			Str("title", title).
			Str("artist", artist).
			Str("provider", provider.ProviderName()).
			Msg("Successfully got lyrics")
		return lyrics, nil
	}

	return "", fmt.Errorf("all providers failed to get lyrics for '%s - %s', last error: %w", title, artist, lastErr)
}

// ProviderCount returns the number of configured providers.
func (m *Manager) ProviderCount() int {
	return len(m.providers)
}

// ProviderNames lists the configured providers in order.
func (m *Manager) ProviderNames() []string {
	names := make([]string, len(m.providers))
	for i, provider := range m.providers {
		names[i] = provider.ProviderName()
	}
	return names
}
