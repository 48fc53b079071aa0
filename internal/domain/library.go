package domain

import "context"

// LibraryQueries: Synchronous, cache-only reads.
// All methods return instantly. NEVER block on network.
// Safe to call from View() and navigation code.
type LibraryQueries interface {
	GetCachedAlbums(section AlbumSection) ([]*Album, bool)
	GetCachedAlbumTracks(albumID string) (*AlbumTracks, bool)
	GetCachedArtists() ([]*Artist, bool)
	GetCachedArtistTracks(artistID string) ([]*Track, bool)
	GetCachedArtistAlbums(artistID string) ([]*Album, bool)
	GetCachedCharts() ([]*Track, bool)
	GetCachedLikedTracks() ([]*Track, bool)
}

// LibraryCommands: Asynchronous operations that may hit network.
// Must be called from tea.Cmd functions, never from View().
type LibraryCommands interface {
	FetchDashboard(ctx context.Context) (*Dashboard, error)

	FetchAlbums(ctx context.Context, section AlbumSection) ([]*Album, error)
	FetchAlbumTracks(ctx context.Context, albumID string) (*AlbumTracks, error)

	FetchArtists(ctx context.Context) ([]*Artist, error)
	FetchArtistTracks(ctx context.Context, artistID string) ([]*Track, error)
	FetchArtistAlbums(ctx context.Context, artistID string) ([]*Album, error)
	ToggleFollow(ctx context.Context, artistID string) (bool, error)

	FetchCharts(ctx context.Context) ([]*Track, error)
	FetchLikedTracks(ctx context.Context) ([]*Track, error)
	FetchRecentlyPlayed(ctx context.Context, limit int) ([]*Track, error)

	// Purchase creates a checkout session and drops the cached album so the
	// next fetch picks up the new entitlement
	Purchase(ctx context.Context, album *Album, email string) (*Checkout, error)

	// Cache invalidation
	InvalidateAlbum(albumID string)
	InvalidateArtist(artistID string)
	InvalidateAll()
}
