package library

import "github.com/mmcdole/encore/internal/domain"

// Queries provides synchronous, cache-only reads.
// Implements domain.LibraryQueries.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) GetCachedAlbums(section domain.AlbumSection) ([]*domain.Album, bool) {
	return q.store.GetAlbums(section)
}

func (q *Queries) GetCachedAlbumTracks(albumID string) (*domain.AlbumTracks, bool) {
	return q.store.GetAlbumTracks(albumID)
}

func (q *Queries) GetCachedArtists() ([]*domain.Artist, bool) {
	return q.store.GetArtists()
}

func (q *Queries) GetCachedArtistTracks(artistID string) ([]*domain.Track, bool) {
	return q.store.GetArtistTracks(artistID)
}

func (q *Queries) GetCachedArtistAlbums(artistID string) ([]*domain.Album, bool) {
	return q.store.GetArtistAlbums(artistID)
}

func (q *Queries) GetCachedCharts() ([]*domain.Track, bool) {
	return q.store.GetCharts()
}

func (q *Queries) GetCachedLikedTracks() ([]*domain.Track, bool) {
	return q.store.GetLikedTracks()
}
