// Package lyricsource selects time-synced lyrics for a track from an ordered
// provider chain with failover.
package lyricsource

import "context"

// LyricsAPI is the provider surface shared by every lyrics backend.
type LyricsAPI interface {
	// SearchSong resolves a track to a provider-specific song id.
	SearchSong(ctx context.Context, title, artist string) (string, error)

	// GetLyrics returns the raw LRC text for a song id.
	GetLyrics(ctx context.Context, songID string) (string, error)

	// ProviderName identifies the provider in logs.
	ProviderName() string
}

// DurationAwareAPI is implemented by providers that can match a track
// directly from its metadata, using the duration to disambiguate.
type DurationAwareAPI interface {
	LyricsAPI

	GetLyricsByInfo(ctx context.Context, title, artist string, duration float64) (string, error)
}
