package lyrics

import "testing"

type fakeTranslator struct {
	table map[string]string
}

func (f *fakeTranslator) TranslateText(text string) string {
	return f.table[text]
}

func TestBilingualInterleavesTranslations(t *testing.T) {
	tr := &fakeTranslator{table: map[string]string{
		"hello": "你好",
		"world": "世界",
	}}
	lines := []Line{
		{Time: 1, Text: "hello"},
		{Time: 2, Text: ""},
		{Time: 3, Text: "world"},
	}

	result := Bilingual(lines, tr)
	if len(result) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(result))
	}
	if result[1].Text != "你好" || result[1].Time != 1 {
		t.Errorf("expected translation sharing timestamp, got %+v", result[1])
	}
	// Empty gap lines are never translated.
	if result[2].Text != "" {
		t.Errorf("expected untouched gap line, got %+v", result[2])
	}
}

func TestBilingualKeepsOrderForCursor(t *testing.T) {
	tr := &fakeTranslator{table: map[string]string{"hello": "你好"}}
	result := Bilingual([]Line{{Time: 5, Text: "hello"}}, tr)

	c := NewCursor(result)
	index, _ := c.Advance(5)
	if result[index].Text != "你好" {
		t.Errorf("expected translation active at shared timestamp, got %q", result[index].Text)
	}
}

func TestBilingualUntranslatableLeftAlone(t *testing.T) {
	tr := &fakeTranslator{table: map[string]string{}}
	lines := []Line{{Time: 1, Text: "hum"}}

	result := Bilingual(lines, tr)
	if len(result) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result))
	}
}

func TestBilingualNilTranslator(t *testing.T) {
	lines := []Line{{Time: 1, Text: "hello"}}
	result := Bilingual(lines, nil)
	if len(result) != 1 {
		t.Fatalf("expected passthrough, got %d lines", len(result))
	}
}
