// Package lyrics implements timed-text (LRC) parsing and the playback-time
// to lyric-line synchronization used by the daemon's sync loop.
package lyrics

import (
	"bufio"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Line is a single timestamped lyric line. Text may be empty, which renders
// as a silent gap between sung lines.
type Line struct {
	Time float64 // seconds
	Text string
}

var markerRe = regexp.MustCompile(`\[(\d+):(\d+)(?:\.(\d+))?\]`)

// Parse converts raw LRC source into lines sorted ascending by time.
// Same-time entries keep their input order. A physical line may carry several
// timestamp markers; each produces one entry with the line's text (the line
// stripped of all markers, trimmed). Lines without a marker are skipped, so
// metadata headers and plain text never produce entries. Input that yields no
// entries means "no lyrics", not an error.
func Parse(source string) []Line {
	scanner := bufio.NewScanner(strings.NewReader(source))
	var result []Line

	for scanner.Scan() {
		line := scanner.Text()
		matches := markerRe.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			continue
		}
		text := strings.TrimSpace(markerRe.ReplaceAllString(line, ""))
		for _, match := range matches {
			min, _ := strconv.Atoi(match[1])
			sec, _ := strconv.Atoi(match[2])
			result = append(result, Line{
				Time: float64(min*60+sec) + float64(fractionMillis(match[3]))/1000,
				Text: text,
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result
}

// fractionMillis interprets a variable-length fraction digit string as
// milliseconds: right-padded to 3 digits when shorter, truncated when longer
// (".5" is 500ms, ".12" is 120ms, ".1234" is 123ms).
func fractionMillis(frac string) int {
	if frac == "" {
		return 0
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	ms, _ := strconv.Atoi(frac)
	switch len(frac) {
	case 1:
		ms *= 100
	case 2:
		ms *= 10
	}
	return ms
}
