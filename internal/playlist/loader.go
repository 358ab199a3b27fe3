package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"player-backend/pkg/github"
	"player-backend/pkg/manifest"
	"player-backend/pkg/playlistcache"
)

var logger = log.With().Str("component", "playlist-loader").Logger()

// Source yields a track list from one backend of the acquisition chain.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Track, error)
}

// Loader runs the acquisition chain: first source to produce a non-empty
// track list wins. A win by anything other than the cache refreshes the
// cache, so the next startup can come up offline.
type Loader struct {
	sources  []Source
	cache    *playlistcache.Cache
	cacheKey string
}

// NewLoader assembles a loader over the given sources.
func NewLoader(cache *playlistcache.Cache, cacheKey string, sources ...Source) *Loader {
	return &Loader{
		sources:  sources,
		cache:    cache,
		cacheKey: cacheKey,
	}
}

// Load walks the chain in order. When every source fails or comes up empty
// the returned playlist is empty and sourceName is ""; that is the "no
// playlist" state, not an error.
func (l *Loader) Load(ctx context.Context) (playlist *Playlist, sourceName string) {
	for i, source := range l.sources {
		tracks, err := source.Load(ctx)
		if err != nil {
			logger.Warn().
				Str("source", source.Name()).
				Int("attempt", i+1).
				Int("total_sources", len(l.sources)).
				Err(err).
				Msg("Playlist source failed")
			continue
		}
		if len(tracks) == 0 {
			logger.Info().Str("source", source.Name()).Msg("Playlist source is empty")
			continue
		}

		logger.Info().
			Str("source", source.Name()).
			Int("tracks", len(tracks)).
			Msg("Playlist loaded")

		if l.cache != nil && l.cacheKey != "" && source.Name() != cacheSourceName {
			l.refreshCache(ctx, tracks)
		}
		return FromTracks(tracks), source.Name()
	}

	logger.Warn().Msg("No playlist source available, starting with an empty playlist")
	return New(), ""
}

func (l *Loader) refreshCache(ctx context.Context, tracks []Track) {
	payload, err := json.Marshal(tracks)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode playlist for caching")
		return
	}
	l.cache.Put(ctx, l.cacheKey, payload)
}

const cacheSourceName = "cache"

// CacheSource serves the previously stored playlist.
type CacheSource struct {
	cache *playlistcache.Cache
	key   string
}

// NewCacheSource creates the cache stage of the chain.
func NewCacheSource(cache *playlistcache.Cache, key string) *CacheSource {
	return &CacheSource{cache: cache, key: key}
}

func (s *CacheSource) Name() string { return cacheSourceName }

func (s *CacheSource) Load(ctx context.Context) ([]Track, error) {
	payload, err := s.cache.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	var tracks []Track
	if err := json.Unmarshal(payload, &tracks); err != nil {
		return nil, fmt.Errorf("corrupt cached playlist: %w", err)
	}
	return tracks, nil
}

// GitHubSource lists a repository folder through the contents API.
type GitHubSource struct {
	client *github.Client
	owner  string
	repo   string
	path   string
	ref    string
}

// NewGitHubSource creates the remote stage of the chain.
func NewGitHubSource(client *github.Client, owner, repo, path, ref string) *GitHubSource {
	return &GitHubSource{client: client, owner: owner, repo: repo, path: path, ref: ref}
}

func (s *GitHubSource) Name() string { return "github" }

// CacheKey identifies this source in the playlist cache.
func (s *GitHubSource) CacheKey() string {
	return fmt.Sprintf("github:%s/%s@%s/%s", s.owner, s.repo, s.ref, s.path)
}

func (s *GitHubSource) Load(ctx context.Context) ([]Track, error) {
	files, err := s.client.ListFolder(ctx, s.owner, s.repo, s.path, s.ref)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for _, file := range files {
		if !IsAudioFile(file.Name) {
			continue
		}
		track := TrackFromFilename(file.Name, file.DownloadURL)
		track.Size = file.Size
		track.SHA = file.SHA
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// ManifestSource reads a static playlist file from disk.
type ManifestSource struct {
	path string
}

// NewManifestSource creates the static-file stage of the chain.
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

func (s *ManifestSource) Name() string { return "manifest" }

func (s *ManifestSource) Load(ctx context.Context) ([]Track, error) {
	entries, err := manifest.Load(s.path)
	if err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name
		if name == "" {
			name = filepath.Base(entry.Path)
		}
		track := TrackFromFilename(name, entry.Path)
		if entry.Title != "" {
			track.Title = entry.Title
		}
		if entry.Artist != "" {
			track.Artist = entry.Artist
		}
		track.Album = entry.Album
		track.Duration = entry.Duration
		tracks = append(tracks, track)
	}
	return tracks, nil
}
