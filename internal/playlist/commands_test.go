package playlist

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/store"
)

type fakeRepo struct {
	playlists map[domain.PlaylistKind][]*domain.Playlist
	tracks    map[string][]*domain.Track
	fetches   int
	added     []string
	deleted   string
}

func (f *fakeRepo) GetPlaylists(ctx context.Context, kind domain.PlaylistKind) ([]*domain.Playlist, error) {
	f.fetches++
	return f.playlists[kind], nil
}

func (f *fakeRepo) GetPlaylistTracks(ctx context.Context, playlistID string) ([]*domain.Track, error) {
	return f.tracks[playlistID], nil
}

func (f *fakeRepo) CreatePlaylist(ctx context.Context, title, description string) (*domain.Playlist, error) {
	return &domain.Playlist{ID: "new", Title: title, Description: description, Kind: domain.PlaylistKindPersonal}, nil
}

func (f *fakeRepo) AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	f.added = append(f.added, trackIDs...)
	return nil
}

func (f *fakeRepo) DeletePlaylist(ctx context.Context, playlistID string) error {
	f.deleted = playlistID
	return nil
}

func newTestCommands(t *testing.T, repo *fakeRepo) (*Commands, *Queries) {
	t.Helper()
	s, err := store.NewLibraryStore("", "")
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCommands(repo, s, time.Minute, logger), NewQueries(s)
}

func TestLoadPlaylistsHonorsTTL(t *testing.T) {
	repo := &fakeRepo{playlists: map[domain.PlaylistKind][]*domain.Playlist{
		domain.PlaylistKindPersonal: {{ID: "p1"}},
	}}
	cmds, _ := newTestCommands(t, repo)

	now := time.Now()
	cmds.now = func() time.Time { return now }

	if _, err := cmds.LoadPlaylists(context.Background(), domain.PlaylistKindPersonal); err != nil {
		t.Fatal(err)
	}
	if _, err := cmds.LoadPlaylists(context.Background(), domain.PlaylistKindPersonal); err != nil {
		t.Fatal(err)
	}
	if repo.fetches != 1 {
		t.Fatalf("fetches = %d, want 1 while fresh", repo.fetches)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cmds.LoadPlaylists(context.Background(), domain.PlaylistKindPersonal); err != nil {
		t.Fatal(err)
	}
	if repo.fetches != 2 {
		t.Fatalf("fetches = %d, want 2 after expiry", repo.fetches)
	}
}

func TestMutationsInvalidate(t *testing.T) {
	repo := &fakeRepo{
		playlists: map[domain.PlaylistKind][]*domain.Playlist{domain.PlaylistKindPersonal: {{ID: "p1"}}},
		tracks:    map[string][]*domain.Track{"p1": {{ID: "t1"}}},
	}
	cmds, queries := newTestCommands(t, repo)
	ctx := context.Background()

	_, _ = cmds.FetchPlaylists(ctx, domain.PlaylistKindPersonal)
	_, _ = cmds.FetchPlaylistTracks(ctx, "p1")

	if err := cmds.AddToPlaylist(ctx, "p1", []string{"t2", "t3"}); err != nil {
		t.Fatal(err)
	}
	if len(repo.added) != 2 {
		t.Errorf("added = %v", repo.added)
	}
	if _, ok := queries.GetCachedPlaylists(domain.PlaylistKindPersonal); ok {
		t.Error("listing should be invalidated after add")
	}
	if _, ok := queries.GetCachedPlaylistTracks("p1"); ok {
		t.Error("tracks should be invalidated after add")
	}

	_, _ = cmds.FetchPlaylists(ctx, domain.PlaylistKindPersonal)
	p, err := cmds.CreatePlaylist(ctx, "Road Trip", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Road Trip" {
		t.Errorf("Title = %q", p.Title)
	}
	if _, ok := queries.GetCachedPlaylists(domain.PlaylistKindPersonal); ok {
		t.Error("listing should be invalidated after create")
	}

	if err := cmds.DeletePlaylist(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if repo.deleted != "p1" {
		t.Errorf("deleted = %q", repo.deleted)
	}
}

func TestGetPlaylistMembership(t *testing.T) {
	repo := &fakeRepo{
		playlists: map[domain.PlaylistKind][]*domain.Playlist{
			domain.PlaylistKindPersonal: {{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
		},
		tracks: map[string][]*domain.Track{
			"p1": {{ID: "t1"}},
			"p2": {{ID: "t2"}},
		},
	}
	cmds, _ := newTestCommands(t, repo)
	ctx := context.Background()

	_, _ = cmds.FetchPlaylistTracks(ctx, "p1")
	_, _ = cmds.FetchPlaylistTracks(ctx, "p2")

	got, err := cmds.GetPlaylistMembership(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if !got["p1"] || got["p2"] || got["p3"] {
		t.Errorf("membership = %v", got)
	}
}
