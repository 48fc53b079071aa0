package library

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/store"
)

type fakeRepo struct {
	mu sync.Mutex

	albums    map[domain.AlbumSection][]*domain.Album
	album     *domain.AlbumTracks
	artists   []*domain.Artist
	trending  []*domain.Artist
	charts    []*domain.Track
	recent    []*domain.Track
	recentErr error
	chartsErr error
	following bool

	followCalls   int
	unfollowCalls int
	checkouts     []domain.CheckoutRequest
}

func (f *fakeRepo) GetAlbums(ctx context.Context, section domain.AlbumSection) ([]*domain.Album, error) {
	return f.albums[section], nil
}

func (f *fakeRepo) GetAlbum(ctx context.Context, albumID string) (*domain.Album, error) {
	if f.album == nil {
		return nil, domain.ErrItemNotFound
	}
	a := f.album.Album
	return &a, nil
}

func (f *fakeRepo) GetAlbumTracks(ctx context.Context, albumID string) (*domain.AlbumTracks, error) {
	if f.album == nil {
		return nil, domain.ErrItemNotFound
	}
	return f.album, nil
}

func (f *fakeRepo) GetArtistAlbums(ctx context.Context, artistID string) ([]*domain.Album, error) {
	return f.albums[domain.AlbumSectionAll], nil
}

func (f *fakeRepo) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkouts = append(f.checkouts, req)
	return &domain.Checkout{AlbumID: req.AlbumID, SessionID: "cs_1", URL: "https://pay/cs_1"}, nil
}

func (f *fakeRepo) GetArtists(ctx context.Context) ([]*domain.Artist, error) {
	return f.artists, nil
}

func (f *fakeRepo) GetTrendingArtists(ctx context.Context) ([]*domain.Artist, error) {
	return f.trending, nil
}

func (f *fakeRepo) GetArtistTracks(ctx context.Context, artistID string) ([]*domain.Track, error) {
	return f.charts, nil
}

func (f *fakeRepo) FollowArtist(ctx context.Context, artistID string) error {
	f.followCalls++
	return nil
}

func (f *fakeRepo) UnfollowArtist(ctx context.Context, artistID string) error {
	f.unfollowCalls++
	return nil
}

func (f *fakeRepo) IsFollowing(ctx context.Context, artistID string) (bool, error) {
	return f.following, nil
}

func (f *fakeRepo) GetCharts(ctx context.Context) ([]*domain.Track, error) {
	return f.charts, f.chartsErr
}

func (f *fakeRepo) GetRecentlyPlayed(ctx context.Context, limit int) ([]*domain.Track, error) {
	return f.recent, f.recentErr
}

func (f *fakeRepo) GetLikedTracks(ctx context.Context) ([]*domain.Track, error) {
	return f.charts, nil
}

func newTestCommands(t *testing.T, repo *fakeRepo) (*Commands, *Queries) {
	t.Helper()
	s, err := store.NewLibraryStore("", "")
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCommands(repo, s, logger), NewQueries(s)
}

func TestFetchDashboard(t *testing.T) {
	repo := &fakeRepo{
		albums:   map[domain.AlbumSection][]*domain.Album{domain.AlbumSectionTop: {{ID: "1"}}},
		trending: []*domain.Artist{{ID: "a"}},
		charts:   []*domain.Track{{ID: "t1"}, {ID: "t2"}},
		recent:   []*domain.Track{{ID: "r"}},
	}
	cmds, queries := newTestCommands(t, repo)

	d, err := cmds.FetchDashboard(context.Background())
	if err != nil {
		t.Fatalf("FetchDashboard: %v", err)
	}
	if len(d.TopAlbums) != 1 || len(d.TrendingArtists) != 1 || len(d.Charts) != 2 || len(d.RecentlyPlayed) != 1 {
		t.Errorf("unexpected dashboard: %+v", d)
	}

	// Sections are written through to the cache
	if got, ok := queries.GetCachedCharts(); !ok || len(got) != 2 {
		t.Errorf("charts not cached: %v %v", got, ok)
	}
	if _, ok := queries.GetCachedAlbums(domain.AlbumSectionTop); !ok {
		t.Error("top albums not cached")
	}
}

func TestFetchDashboardToleratesMissingHistory(t *testing.T) {
	repo := &fakeRepo{
		charts:    []*domain.Track{{ID: "t1"}},
		recentErr: domain.ErrAuthFailed,
	}
	cmds, _ := newTestCommands(t, repo)

	d, err := cmds.FetchDashboard(context.Background())
	if err != nil {
		t.Fatalf("history failure should not fail the dashboard: %v", err)
	}
	if d.RecentlyPlayed != nil {
		t.Errorf("RecentlyPlayed = %v, want nil", d.RecentlyPlayed)
	}
}

func TestFetchDashboardFailsOnSectionError(t *testing.T) {
	repo := &fakeRepo{chartsErr: domain.ErrServerOffline}
	cmds, _ := newTestCommands(t, repo)

	if _, err := cmds.FetchDashboard(context.Background()); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v, want ErrServerOffline", err)
	}
}

func TestToggleFollow(t *testing.T) {
	tests := []struct {
		name      string
		following bool
		want      bool
		follows   int
		unfollows int
	}{
		{"follow", false, true, 1, 0},
		{"unfollow", true, false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{following: tt.following}
			cmds, _ := newTestCommands(t, repo)

			got, err := cmds.ToggleFollow(context.Background(), "a")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ToggleFollow = %v, want %v", got, tt.want)
			}
			if repo.followCalls != tt.follows || repo.unfollowCalls != tt.unfollows {
				t.Errorf("calls follow=%d unfollow=%d", repo.followCalls, repo.unfollowCalls)
			}
		})
	}
}

func TestPurchase(t *testing.T) {
	album := &domain.Album{ID: "9", ArtistID: "a", Price: 7.5}
	repo := &fakeRepo{album: &domain.AlbumTracks{Album: *album}}
	cmds, queries := newTestCommands(t, repo)

	if _, err := cmds.FetchAlbumTracks(context.Background(), "9"); err != nil {
		t.Fatal(err)
	}
	if _, ok := queries.GetCachedAlbumTracks("9"); !ok {
		t.Fatal("album should be cached before purchase")
	}

	checkout, err := cmds.Purchase(context.Background(), album, "me@example.test")
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if checkout.SessionID != "cs_1" {
		t.Errorf("SessionID = %q", checkout.SessionID)
	}
	if len(repo.checkouts) != 1 {
		t.Fatalf("checkouts = %d", len(repo.checkouts))
	}
	req := repo.checkouts[0]
	if req.AlbumID != "9" || req.ArtistID != "a" || req.Amount != 7.5 || req.Email != "me@example.test" {
		t.Errorf("unexpected request %+v", req)
	}
	if req.TransactionID == "" {
		t.Error("expected a transaction id")
	}
	if _, ok := queries.GetCachedAlbumTracks("9"); ok {
		t.Error("purchase should invalidate the cached album")
	}
}

func TestPurchaseOwnedAlbum(t *testing.T) {
	repo := &fakeRepo{}
	cmds, _ := newTestCommands(t, repo)

	_, err := cmds.Purchase(context.Background(), &domain.Album{ID: "1", Purchased: true}, "")
	if !errors.Is(err, domain.ErrAlreadyPurchased) {
		t.Fatalf("err = %v, want ErrAlreadyPurchased", err)
	}
	if len(repo.checkouts) != 0 {
		t.Error("no checkout should be created")
	}
}
