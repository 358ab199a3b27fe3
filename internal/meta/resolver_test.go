package meta

import (
	"errors"
	"testing"
)

type fakeModel struct {
	response string
	err      error
	calls    int
}

func (f *fakeModel) Name() string { return "fake" }

func (f *fakeModel) HandleText(msg string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestResolveHeuristics(t *testing.T) {
	r := NewResolver(nil)

	cases := []struct {
		display    string
		wantArtist string
		wantTitle  string
	}{
		{"Daft Punk - One More Time", "Daft Punk", "One More Time"},
		{"Daft Punk - One More Time (Official Video)", "Daft Punk", "One More Time"},
		{"Queen - Bohemian Rhapsody [Remastered 2011]", "Queen", "Bohemian Rhapsody"},
		{"Ann - Alpha.mp3", "Ann", "Alpha"},
	}
	for _, c := range cases {
		info := r.Resolve(c.display)
		if !info.IsSong {
			t.Errorf("%q: expected a song", c.display)
			continue
		}
		if info.Artist != c.wantArtist || info.Title != c.wantTitle {
			t.Errorf("%q: expected (%q, %q), got (%q, %q)",
				c.display, c.wantArtist, c.wantTitle, info.Artist, info.Title)
		}
	}
}

func TestResolveWithoutSeparatorFallsBackToTitle(t *testing.T) {
	r := NewResolver(nil)

	info := r.Resolve("Nocturne op9 no2")
	if !info.IsSong || info.Title != "Nocturne op9 no2" || info.Artist != "" {
		t.Errorf("unexpected resolution: %+v", info)
	}
}

func TestResolveEmptyDisplay(t *testing.T) {
	info := NewResolver(nil).Resolve("   ")
	if info.IsSong {
		t.Errorf("empty display should not be a song: %+v", info)
	}
}

func TestResolveModelFallback(t *testing.T) {
	model := &fakeModel{response: `{"is_song": true, "title": "Alpha", "artist": "Ann"}`}
	r := NewResolver(model)

	info := r.Resolve("live session e04")
	if model.calls != 1 {
		t.Errorf("expected one model call, got %d", model.calls)
	}
	if info.Artist != "Ann" || info.Title != "Alpha" || !info.IsSong {
		t.Errorf("unexpected resolution: %+v", info)
	}
}

func TestResolveModelNotASong(t *testing.T) {
	model := &fakeModel{response: `{"is_song": false}`}
	info := NewResolver(model).Resolve("some tech podcast episode 12")

	if info.IsSong {
		t.Errorf("model verdict should be honored: %+v", info)
	}
}

func TestResolveModelErrorFallsBackToTitle(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	info := NewResolver(model).Resolve("mystery track")

	if model.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", model.calls)
	}
	if !info.IsSong || info.Title != "mystery track" {
		t.Errorf("unexpected fallback: %+v", info)
	}
}

func TestResolveModelNotConsultedWhenHeuristicsWork(t *testing.T) {
	model := &fakeModel{response: `{"is_song": false}`}
	info := NewResolver(model).Resolve("Ann - Alpha")

	if model.calls != 0 {
		t.Errorf("model should not be consulted, got %d calls", model.calls)
	}
	if info.Artist != "Ann" {
		t.Errorf("unexpected resolution: %+v", info)
	}
}
