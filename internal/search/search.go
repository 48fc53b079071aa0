package search

import (
	"log/slog"
	"sort"
	"strings"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/encore/internal/domain"
)

// FilterItem represents a searchable cached entity
type FilterItem struct {
	Item  domain.ListItem // *Album, *Artist, *Track or *Playlist
	Title string
	Type  string // Same values as ListItem.GetItemType
}

// FilterResult represents a search result with match metadata
type FilterResult struct {
	FilterItem
	MatchedIndexes []int // Rune positions in Title that matched, for highlighting
	Score          int   // Lower is better
}

// filterIndex implements sahilm/fuzzy.Source over pre-lowered titles
type filterIndex struct {
	items       []FilterItem
	lowerTitles []string
}

func (idx *filterIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx *filterIndex) Len() int            { return len(idx.items) }

func (idx *filterIndex) add(seen map[string]bool, item domain.ListItem) {
	key := item.GetItemType() + ":" + item.GetID()
	if seen[key] {
		return
	}
	seen[key] = true
	idx.items = append(idx.items, FilterItem{Item: item, Title: item.GetTitle(), Type: item.GetItemType()})
	idx.lowerTitles = append(idx.lowerTitles, strings.ToLower(item.GetTitle()))
}

// Service searches the local catalog cache. It never hits the network.
type Service struct {
	library   domain.LibraryQueries
	playlists domain.PlaylistQueries
	logger    *slog.Logger
}

// NewService creates a new search service
func NewService(library domain.LibraryQueries, playlists domain.PlaylistQueries, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		library:   library,
		playlists: playlists,
		logger:    logger,
	}
}

// FilterLocal searches cached data directly.
// types restricts results by item type (nil = all types).
func (s *Service) FilterLocal(query string, types []string) []FilterResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	idx := s.gather(makeTypeSet(types))
	if idx.Len() == 0 {
		return nil
	}

	lowerQuery := strings.ToLower(query)
	matches := fuzzy.FindFrom(lowerQuery, idx)

	results := make([]FilterResult, len(matches))
	for i, match := range matches {
		results[i] = FilterResult{
			FilterItem:     idx.items[match.Index],
			MatchedIndexes: runeIndexes(idx.lowerTitles[match.Index], match.MatchedIndexes),
			Score:          matchScore(idx.lowerTitles[match.Index], lowerQuery),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	s.logger.Debug("filtered cache", "query", query, "indexed", idx.Len(), "results", len(results))
	return results
}

// gather collects every cached entity, deduplicated by type and id
func (s *Service) gather(types map[string]bool) *filterIndex {
	idx := &filterIndex{}
	seen := make(map[string]bool)

	allowed := func(t string) bool {
		return len(types) == 0 || types[t]
	}

	if allowed("album") {
		for _, section := range []domain.AlbumSection{
			domain.AlbumSectionAll, domain.AlbumSectionNew, domain.AlbumSectionTop, domain.AlbumSectionTrending,
		} {
			if albums, ok := s.library.GetCachedAlbums(section); ok {
				for _, a := range albums {
					idx.add(seen, a)
				}
			}
		}
	}

	if allowed("artist") {
		if artists, ok := s.library.GetCachedArtists(); ok {
			for _, a := range artists {
				idx.add(seen, a)
			}
		}
	}

	if allowed("track") {
		if tracks, ok := s.library.GetCachedCharts(); ok {
			for _, t := range tracks {
				idx.add(seen, t)
			}
		}
		if tracks, ok := s.library.GetCachedLikedTracks(); ok {
			for _, t := range tracks {
				idx.add(seen, t)
			}
		}
	}

	if allowed("playlist") && s.playlists != nil {
		for _, kind := range []domain.PlaylistKind{
			domain.PlaylistKindPersonal, domain.PlaylistKindCommunity, domain.PlaylistKindPopular,
		} {
			if playlists, ok := s.playlists.GetCachedPlaylists(kind); ok {
				for _, p := range playlists {
					idx.add(seen, p)
				}
			}
		}
	}

	return idx
}

// matchScore ranks a candidate title against the query.
// Lower score = better match.
func matchScore(title, query string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	case fuzzysearch.MatchFold(query, title):
		return 100 + fuzzysearch.LevenshteinDistance(query, title)
	}
	return 1000 + fuzzysearch.LevenshteinDistance(query, title)
}

// runeIndexes converts byte offsets reported by the matcher into rune positions
func runeIndexes(s string, byteIdx []int) []int {
	if len(byteIdx) == 0 {
		return nil
	}
	want := make(map[int]bool, len(byteIdx))
	for _, b := range byteIdx {
		want[b] = true
	}
	out := make([]int, 0, len(byteIdx))
	r := 0
	for b := range s {
		if want[b] {
			out = append(out, r)
		}
		r++
	}
	return out
}

func makeTypeSet(types []string) map[string]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[string]bool)
	for _, t := range types {
		set[t] = true
	}
	return set
}
