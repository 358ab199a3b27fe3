package lyrics

// Translator turns a lyric line into its translation. An empty result means
// "no translation", which leaves the original line alone.
type Translator interface {
	TranslateText(text string) string
}

// Bilingual interleaves a translated entry after every non-empty line,
// sharing its timestamp. With the original first and the translation second,
// the cursor's last-tie-wins rule makes the translation the active line while
// renderers that show a window around the active index display both.
func Bilingual(lines []Line, tr Translator) []Line {
	if tr == nil {
		return lines
	}

	result := make([]Line, 0, len(lines)*2)
	for _, line := range lines {
		result = append(result, line)
		if line.Text == "" {
			continue
		}
		translated := tr.TranslateText(line.Text)
		if translated == "" || translated == line.Text {
			continue
		}
		result = append(result, Line{Time: line.Time, Text: translated})
	}
	return result
}
