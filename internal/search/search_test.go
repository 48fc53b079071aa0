package search

import (
	"testing"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/library"
	"github.com/mmcdole/encore/internal/playlist"
	"github.com/mmcdole/encore/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.NewLibraryStore("", "")
	if err != nil {
		t.Fatal(err)
	}

	_ = s.SaveAlbums(domain.AlbumSectionTop, []*domain.Album{
		{ID: "1", Title: "Midnight Drive"},
		{ID: "2", Title: "Golden Hour"},
	})
	// Same album under a second section must not duplicate
	_ = s.SaveAlbums(domain.AlbumSectionNew, []*domain.Album{{ID: "1", Title: "Midnight Drive"}})
	_ = s.SaveArtists([]*domain.Artist{{ID: "a", Name: "Midnight Choir"}})
	_ = s.SaveCharts([]*domain.Track{{ID: "t1", Title: "Midnight"}, {ID: "t2", Title: "Sunrise"}})
	_ = s.SavePlaylists(domain.PlaylistKindPopular, []*domain.Playlist{{ID: "p", Title: "Late Night Mix"}})

	return NewService(library.NewQueries(s), playlist.NewQueries(s), nil)
}

func TestFilterLocalRanksExactFirst(t *testing.T) {
	svc := newTestService(t)

	results := svc.FilterLocal("midnight", nil)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3: %+v", len(results), results)
	}
	if results[0].Title != "Midnight" || results[0].Type != "track" {
		t.Errorf("first result = %+v, want exact track match", results[0].FilterItem)
	}
	for _, r := range results[1:] {
		if r.Score < results[0].Score {
			t.Errorf("results not sorted: %+v", results)
		}
	}
}

func TestFilterLocalMatchedIndexes(t *testing.T) {
	svc := newTestService(t)

	results := svc.FilterLocal("gnh", []string{"album"})
	if len(results) == 0 {
		t.Fatal("expected a match")
	}
	r := results[0]
	if r.Title != "Golden Hour" {
		t.Fatalf("Title = %q", r.Title)
	}
	if len(r.MatchedIndexes) != 3 {
		t.Errorf("MatchedIndexes = %v", r.MatchedIndexes)
	}
}

func TestFilterLocalTypeFilter(t *testing.T) {
	tests := []struct {
		types []string
		want  int
	}{
		{nil, 4},
		{[]string{"album"}, 1},
		{[]string{"artist", "playlist"}, 2},
		{[]string{"track"}, 1},
	}

	svc := newTestService(t)
	for _, tt := range tests {
		got := svc.FilterLocal("night", tt.types)
		if len(got) != tt.want {
			t.Errorf("FilterLocal(night, %v) = %d results, want %d", tt.types, len(got), tt.want)
		}
	}
}

func TestFilterLocalEmptyQuery(t *testing.T) {
	svc := newTestService(t)
	if got := svc.FilterLocal("  ", nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		title, query string
		want         int
	}{
		{"sunrise", "sunrise", 0},
		{"sunrise", "sun", 10},
		{"sunrise", "rise", 50},
	}
	for _, tt := range tests {
		if got := matchScore(tt.title, tt.query); got != tt.want {
			t.Errorf("matchScore(%q, %q) = %d, want %d", tt.title, tt.query, got, tt.want)
		}
	}
	if matchScore("sunrise", "snrs") < 100 {
		t.Error("fuzzy-only match should rank below substring matches")
	}
}
