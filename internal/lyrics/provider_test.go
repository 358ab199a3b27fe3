package lyrics

import (
	"context"
	"errors"
	"testing"

	"player-backend/internal/meta"
)

type fakeFetcher struct {
	lyrics string
	err    error
	calls  int
}

func (f *fakeFetcher) GetLyricsByInfo(ctx context.Context, title, artist string, duration float64) (string, error) {
	f.calls++
	return f.lyrics, f.err
}

func TestProviderCachesFetchedLyrics(t *testing.T) {
	fetcher := &fakeFetcher{lyrics: "[00:01.00]cached line"}
	provider := NewProvider(t.TempDir(), fetcher)
	info := meta.SongInfo{Title: "Alpha", Artist: "Ann", IsSong: true}
	ctx := context.Background()

	first, err := provider.GetLyrics(ctx, info)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := provider.GetLyrics(ctx, info)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if first != second || first != "[00:01.00]cached line" {
		t.Errorf("cache round-trip mismatch: %q vs %q", first, second)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected a single provider fetch, got %d", fetcher.calls)
	}
}

func TestProviderPropagatesFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("all providers failed")}
	provider := NewProvider(t.TempDir(), fetcher)

	_, err := provider.GetLyrics(context.Background(), meta.SongInfo{Title: "T", Artist: "A"})
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
}

func TestProviderSanitizesCacheFilename(t *testing.T) {
	fetcher := &fakeFetcher{lyrics: "[00:01.00]line"}
	provider := NewProvider(t.TempDir(), fetcher)
	info := meta.SongInfo{Title: "What/If?", Artist: "A:B", IsSong: true}
	ctx := context.Background()

	if _, err := provider.GetLyrics(ctx, info); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	// The slash in the title must not have produced a nested path.
	if _, err := provider.GetLyrics(ctx, info); err != nil {
		t.Fatalf("cache read-back failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected cache hit on second call, got %d fetches", fetcher.calls)
	}
}
