// Package playlist holds the track model and the playlist acquisition chain:
// cache, then the GitHub contents listing, then a static manifest file.
package playlist

import (
	"path"
	"strings"
)

// Track is one playable entry. URL points at the audio payload (a GitHub
// download URL or a local path from a manifest). Title and Artist start as
// filename guesses and may be refined by the metadata resolver.
type Track struct {
	Name     string  `json:"name"` // original file name
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album,omitempty"`
	Size     int64   `json:"size,omitempty"`
	Duration float64 `json:"duration,omitempty"` // seconds, 0 when unknown
	SHA      string  `json:"sha,omitempty"`
}

// Playlist is an ordered track collection.
type Playlist struct {
	tracks []Track
}

// New creates an empty playlist.
func New() *Playlist {
	return &Playlist{tracks: make([]Track, 0)}
}

// FromTracks creates a playlist over the given tracks.
func FromTracks(tracks []Track) *Playlist {
	return &Playlist{tracks: tracks}
}

// Add appends tracks.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Track returns the track at index, or nil when out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Find returns the index of the first track whose name or title matches the
// player's display string, -1 when none does.
func (p *Playlist) Find(display string) int {
	norm := normalize(display)
	for i, track := range p.tracks {
		if norm == normalize(stripExt(track.Name)) || norm == normalize(track.Artist+" - "+track.Title) {
			return i
		}
	}
	return -1
}

// audioExts are the file extensions treated as playable audio.
var audioExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".wav":  true,
}

// IsAudioFile reports whether name has a recognized audio extension.
func IsAudioFile(name string) bool {
	return audioExts[strings.ToLower(path.Ext(name))]
}

// TrackFromFilename builds a track from a bare file name, guessing artist and
// title from the common "Artist - Title.ext" convention. Files without the
// separator keep the whole base name as title.
func TrackFromFilename(name, url string) Track {
	track := Track{Name: name, URL: url}
	base := stripExt(name)

	if artist, title, found := strings.Cut(base, " - "); found {
		track.Artist = strings.TrimSpace(artist)
		track.Title = strings.TrimSpace(title)
	} else {
		track.Title = strings.TrimSpace(base)
	}
	return track
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}
