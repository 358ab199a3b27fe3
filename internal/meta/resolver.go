// Package meta turns a media player's display title into song metadata fit
// for lyrics lookup.
package meta

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"player-backend/pkg/ai"
)

var logger = log.With().Str("component", "meta").Logger()

// SongInfo is the resolved metadata. IsSong is false when the display title
// clearly is not music (a podcast, a video essay), which suppresses lyrics
// lookup.
type SongInfo struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Duration float64 `json:"duration"`
	IsSong   bool    `json:"is_song"`
}

// Resolver extracts song metadata, heuristics first and the configured model
// as a fallback.
type Resolver struct {
	aiClient ai.AiInterface // nil disables the AI fallback
}

// NewResolver creates a resolver. aiClient may be nil.
func NewResolver(aiClient ai.AiInterface) *Resolver {
	return &Resolver{aiClient: aiClient}
}

// noise matches bracketed decorations that players and uploaders append to
// titles: "(Official Video)", "[HD]", "(Lyrics)" and the like.
var noise = regexp.MustCompile(`(?i)[(\[][^)\]]*(official|video|audio|lyric|lyrics|visualizer|remaster(ed)?|mv|hd|4k)[^)\]]*[)\]]`)

func extractionPrompt(title string) string {
	return fmt.Sprintf(`Extract song information from a media title and answer with exactly this JSON shape: {"is_song": true, "title": "song title", "artist": "performing artist"}. If the title does not contain a song, answer {"is_song": false}. Answer with raw JSON only, no markdown. The media title is: %s`, title)
}

// Resolve parses display into song metadata. The "Artist - Title" convention
// is tried first; when it does not apply and a model is configured, the model
// is asked. A display string that resolves to neither yields IsSong false.
func (r *Resolver) Resolve(display string) SongInfo {
	display = strings.TrimSpace(display)
	if display == "" {
		return SongInfo{}
	}

	if info, ok := resolveHeuristically(display); ok {
		return info
	}

	if r.aiClient != nil {
		if info, err := r.resolveWithModel(display); err == nil {
			return info
		}
	}

	// Last resort: treat the whole display string as a title.
	return SongInfo{Title: cleanTitle(display), IsSong: true}
}

func resolveHeuristically(display string) (SongInfo, bool) {
	cleaned := cleanTitle(display)

	artist, title, found := strings.Cut(cleaned, " - ")
	if !found {
		return SongInfo{}, false
	}

	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return SongInfo{}, false
	}

	return SongInfo{Title: title, Artist: artist, IsSong: true}, true
}

func (r *Resolver) resolveWithModel(display string) (SongInfo, error) {
	var raw string
	var err error
	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		raw, err = r.aiClient.HandleText(extractionPrompt(display))
		if err == nil {
			break
		}
		logger.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("Model query failed")
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return SongInfo{}, fmt.Errorf("failed to query model after %d attempts: %w", maxRetries, err)
	}

	var info SongInfo
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &info); err != nil {
		return SongInfo{}, fmt.Errorf("failed to parse model response: %w", err)
	}

	logger.Info().
		Str("display", display).
		Str("title", info.Title).
		Str("artist", info.Artist).
		Bool("is_song", info.IsSong).
		Msg("Model resolved metadata")
	return info, nil
}

// cleanTitle strips an audio file extension and bracketed noise.
func cleanTitle(s string) string {
	ext := strings.ToLower(path.Ext(s))
	switch ext {
	case ".mp3", ".flac", ".ogg", ".opus", ".m4a", ".wav":
		s = strings.TrimSuffix(s, path.Ext(s))
	}
	s = noise.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
