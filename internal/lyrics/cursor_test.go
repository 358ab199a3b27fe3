package lyrics

import "testing"

func threeLines() []Line {
	return []Line{
		{Time: 0, Text: "zero"},
		{Time: 10, Text: "ten"},
		{Time: 20, Text: "twenty"},
	}
}

func TestCursorForwardMonotonicAdvance(t *testing.T) {
	c := NewCursor(threeLines())

	steps := []struct {
		time        float64
		wantIndex   int
		wantChanged bool
	}{
		{0, 0, true},
		{5, 0, false},
		{10, 1, true},
		{15, 1, false},
		{25, 2, true},
	}
	for _, s := range steps {
		index, changed := c.Advance(s.time)
		if index != s.wantIndex || changed != s.wantChanged {
			t.Errorf("Advance(%f): expected (%d, %v), got (%d, %v)",
				s.time, s.wantIndex, s.wantChanged, index, changed)
		}
	}
}

func TestCursorBackwardSeek(t *testing.T) {
	c := NewCursor(threeLines())

	if index, _ := c.Advance(25); index != 2 {
		t.Fatalf("expected index 2 after Advance(25), got %d", index)
	}

	index, changed := c.Advance(3)
	if index != 0 || !changed {
		t.Errorf("Advance(3) after seek: expected (0, true), got (%d, %v)", index, changed)
	}

	// Seeking before the first line drops back to no active line.
	index, changed = c.Advance(-1)
	if index != -1 || !changed {
		t.Errorf("Advance(-1): expected (-1, true), got (%d, %v)", index, changed)
	}
}

func TestCursorBeforeFirstLine(t *testing.T) {
	c := NewCursor([]Line{{Time: 5, Text: "five"}, {Time: 9, Text: "nine"}})

	index, changed := c.Advance(2)
	if index != -1 || changed {
		t.Errorf("Advance(2): expected (-1, false), got (%d, %v)", index, changed)
	}

	// A first line at time 0 is active from time 0.
	c.Reset(threeLines())
	index, changed = c.Advance(0)
	if index != 0 || !changed {
		t.Errorf("Advance(0): expected (0, true), got (%d, %v)", index, changed)
	}
}

func TestCursorIdempotentAdvance(t *testing.T) {
	c := NewCursor(threeLines())

	first, _ := c.Advance(12)
	second, changed := c.Advance(12)
	if second != first {
		t.Errorf("repeated Advance(12) disagreed: %d then %d", first, second)
	}
	if changed {
		t.Error("repeated Advance(12) reported a change")
	}
}

func TestCursorLastLineStaysActive(t *testing.T) {
	c := NewCursor(threeLines())

	if index, _ := c.Advance(20); index != 2 {
		t.Fatalf("expected index 2 at the last line's time, got %d", index)
	}
	// No implicit end time: the last line holds far past its timestamp.
	index, changed := c.Advance(100000)
	if index != 2 || changed {
		t.Errorf("Advance(100000): expected (2, false), got (%d, %v)", index, changed)
	}
}

func TestCursorLastTieWins(t *testing.T) {
	lines := []Line{
		{Time: 0, Text: "intro"},
		{Time: 10, Text: "original"},
		{Time: 10, Text: "translation"},
		{Time: 20, Text: "outro"},
	}

	// Landing exactly on the shared timestamp from a cold start.
	c := NewCursor(lines)
	if index, _ := c.Advance(10); index != 2 {
		t.Errorf("cold Advance(10): expected index 2, got %d", index)
	}

	// Same landing reached by forward extension.
	c = NewCursor(lines)
	c.Advance(0)
	if index, _ := c.Advance(10); index != 2 {
		t.Errorf("forward Advance(10): expected index 2, got %d", index)
	}
}

func TestCursorReset(t *testing.T) {
	c := NewCursor(threeLines())
	c.Advance(25)

	c.Reset([]Line{{Time: 2, Text: "new"}})
	if c.Active() != -1 {
		t.Errorf("expected no active line after reset, got %d", c.Active())
	}
	index, changed := c.Advance(3)
	if index != 0 || !changed {
		t.Errorf("Advance(3) after reset: expected (0, true), got (%d, %v)", index, changed)
	}
	if c.Text() != "new" {
		t.Errorf("expected active text %q, got %q", "new", c.Text())
	}
}

func TestCursorEmptyLines(t *testing.T) {
	c := NewCursor(nil)
	for _, time := range []float64{0, 10, -5} {
		index, changed := c.Advance(time)
		if index != -1 || changed {
			t.Errorf("Advance(%f) on empty cursor: expected (-1, false), got (%d, %v)",
				time, index, changed)
		}
	}
	if c.Text() != "" {
		t.Errorf("expected empty text on empty cursor, got %q", c.Text())
	}
}
