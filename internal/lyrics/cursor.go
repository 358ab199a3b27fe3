package lyrics

// Cursor tracks which lyric line is active for a monotonically advancing
// playback position. It owns its line slice; callers must not mutate the
// slice after handing it over. The zero value behaves like a cursor over an
// empty line list.
//
// Advance is called from a single goroutine (the sync loop), so the cursor
// carries no locking.
type Cursor struct {
	lines  []Line
	active int // index of the active line, -1 when none
}

// NewCursor returns a cursor over lines, which must already be sorted
// ascending by time (Parse output qualifies). No line is active until the
// first Advance.
func NewCursor(lines []Line) *Cursor {
	return &Cursor{lines: lines, active: -1}
}

// Reset replaces the line list wholesale and drops the forward-scan memory,
// so the next Advance performs a full search. Used on track change and when
// lyrics become unavailable (nil lines).
func (c *Cursor) Reset(lines []Line) {
	c.lines = lines
	c.active = -1
}

// Lines returns the cursor's line list.
func (c *Cursor) Lines() []Line {
	return c.lines
}

// Active returns the index of the currently active line, -1 when none.
func (c *Cursor) Active() int {
	return c.active
}

// Text returns the text of the active line, "" when none is active.
func (c *Cursor) Text() string {
	if c.active < 0 || c.active >= len(c.lines) {
		return ""
	}
	return c.lines[c.active].Text
}

// Advance resolves the line active at playback time t: the greatest index i
// with lines[i].Time <= t, or -1 when t precedes the first line. Once t is at
// or beyond the final line's time the last index stays active indefinitely.
// When several lines share the maximal qualifying time the last of them wins.
//
// changed reports whether the index differs from the previous call, including
// transitions into and out of -1.
//
// Normal playback only moves forward, so when t has not regressed below the
// active line's time the cursor extends forward from it, which is O(1)
// amortized across a full playthrough. A backward seek (or a fresh cursor)
// falls back to a binary search over the sorted times.
func (c *Cursor) Advance(t float64) (index int, changed bool) {
	prev := c.active

	if c.active >= 0 && c.active < len(c.lines) && t >= c.lines[c.active].Time {
		next := c.active
		for next+1 < len(c.lines) && c.lines[next+1].Time <= t {
			next++
		}
		c.active = next
	} else {
		c.active = searchLine(c.lines, t)
	}

	return c.active, c.active != prev
}

// searchLine is the full-rescan path: binary search for the greatest index
// with lines[i].Time <= t, -1 when no line qualifies.
func searchLine(lines []Line, t float64) int {
	left, right := 0, len(lines)-1
	result := -1
	for left <= right {
		mid := (left + right) / 2
		if lines[mid].Time <= t {
			result = mid
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return result
}
