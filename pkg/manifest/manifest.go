// Package manifest reads static playlist files: a JSON track array or an
// M3U listing. It is the last resort of the playlist acquisition chain when
// neither the cache nor the remote listing is available.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Track is one manifest entry. Only Path is mandatory for M3U sources; JSON
// manifests may carry the full metadata.
type Track struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Title    string  `json:"title,omitempty"`
	Artist   string  `json:"artist,omitempty"`
	Album    string  `json:"album,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Load reads the manifest at path, dispatching on the file extension.
// ".m3u" and ".m3u8" parse as M3U; everything else parses as JSON.
func Load(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u", ".m3u8":
		return parseM3U(data, filepath.Dir(path)), nil
	default:
		return parseJSON(data)
	}
}

func parseJSON(data []byte) ([]Track, error) {
	var tracks []Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	for i := range tracks {
		if tracks[i].Name == "" {
			tracks[i].Name = filepath.Base(tracks[i].Path)
		}
	}
	return tracks, nil
}

// parseM3U resolves relative entries against the manifest's own directory.
// Comment and directive lines start with '#'.
func parseM3U(data []byte, baseDir string) []Track {
	var tracks []Track
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		trackPath := line
		if !filepath.IsAbs(trackPath) && !strings.Contains(trackPath, "://") {
			trackPath = filepath.Clean(filepath.Join(baseDir, trackPath))
		}

		tracks = append(tracks, Track{
			Name: filepath.Base(line),
			Path: trackPath,
		})
	}
	return tracks
}
