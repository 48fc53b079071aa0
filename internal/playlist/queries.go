package playlist

import "github.com/mmcdole/encore/internal/domain"

// Queries provides synchronous, cache-only reads.
// Implements domain.PlaylistQueries.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) GetCachedPlaylists(kind domain.PlaylistKind) ([]*domain.Playlist, bool) {
	return q.store.GetPlaylists(kind)
}

func (q *Queries) GetCachedPlaylistTracks(playlistID string) ([]*domain.Track, bool) {
	return q.store.GetPlaylistTracks(playlistID)
}
