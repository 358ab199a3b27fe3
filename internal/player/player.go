// Package player reads the host media player's state through playerctl. It
// stands in for the media element that owns actual decoding and playback.
package player

import (
	"os/exec"
	"strconv"
	"strings"
)

// GetCurrentSong returns the player's display string for the current track.
func GetCurrentSong() (string, error) {
	cmd := exec.Command("playerctl", "metadata", "--format", `{{artist}} - {{title}}`)
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// GetCurrentPlayTime returns the playback position in seconds, 0 when the
// player is unreachable.
func GetCurrentPlayTime() float64 {
	out, err := exec.Command("playerctl", "position").Output()
	if err != nil {
		return 0
	}
	s := strings.TrimSpace(string(out))
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return seconds
}

// GetCurrentDuration returns the current track's length in seconds, 0 when
// unknown. playerctl reports mpris:length in microseconds.
func GetCurrentDuration() float64 {
	out, err := exec.Command("playerctl", "metadata", "mpris:length").Output()
	if err != nil {
		return 0
	}
	micros, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0
	}
	return micros / 1e6
}
