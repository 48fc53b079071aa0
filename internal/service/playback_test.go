package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/player"
	"github.com/mmcdole/encore/internal/store"
)

type fakeClient struct {
	mu     sync.Mutex
	played chan string
	liked  []string
	err    error
}

func (f *fakeClient) RecordPlay(ctx context.Context, trackID string) error {
	f.played <- trackID
	return nil
}

func (f *fakeClient) LikeTrack(ctx context.Context, trackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.liked = append(f.liked, trackID)
	return nil
}

type fakeAlbums map[string]*domain.AlbumTracks

func (f fakeAlbums) GetCachedAlbumTracks(albumID string) (*domain.AlbumTracks, bool) {
	a, ok := f[albumID]
	return a, ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type notification struct {
	change player.Change
	state  player.State
}

func newTestPlayback(t *testing.T, albums fakeAlbums) (*PlaybackService, *fakeClient, *[]notification) {
	t.Helper()
	st := player.NewStore()
	var notes []notification
	st.Subscribe(func(c player.Change, s player.State) {
		notes = append(notes, notification{c, s})
	})
	client := &fakeClient{played: make(chan string, 4)}
	return NewPlaybackService(st, client, albums, discardLogger()), client, &notes
}

func waitPlayed(t *testing.T, client *fakeClient) string {
	t.Helper()
	select {
	case id := <-client.played:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("play was not recorded")
		return ""
	}
}

func TestPlayAlbumTrackWritesOneMutation(t *testing.T) {
	svc, client, notes := newTestPlayback(t, nil)

	album := &domain.AlbumTracks{
		Album: domain.Album{ID: "al"},
		Tracks: []*domain.Track{
			{ID: "a", Type: domain.TrackTypeFull},
			{ID: "p", Type: domain.TrackTypePreview},
			{ID: "b", Type: domain.TrackTypeFull},
		},
		Purchased: true,
	}

	if err := svc.PlayAlbumTrack(album, "b"); err != nil {
		t.Fatal(err)
	}

	if len(*notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(*notes))
	}
	n := (*notes)[0]
	for _, bit := range []player.Change{
		player.ChangeTrack, player.ChangeQueue, player.ChangeIndex, player.ChangePlaying, player.ChangeEntitlement,
	} {
		if !n.change.Has(bit) {
			t.Errorf("change %b missing bit %b", n.change, bit)
		}
	}
	if len(n.state.Queue) != 2 {
		t.Errorf("queue = %d, want preview cuts excluded", len(n.state.Queue))
	}
	if n.state.Index != 1 || n.state.CurrentTrack.ID != "b" {
		t.Errorf("index=%d track=%s", n.state.Index, n.state.CurrentTrack.ID)
	}
	if !n.state.Entitled || !n.state.IsPlaying {
		t.Errorf("entitled=%v playing=%v", n.state.Entitled, n.state.IsPlaying)
	}

	if got := waitPlayed(t, client); got != "b" {
		t.Errorf("recorded %q, want b", got)
	}
}

func TestPlayPlaylistTrackIsEntitled(t *testing.T) {
	svc, client, notes := newTestPlayback(t, nil)

	tracks := []*domain.Track{{ID: "x", AlbumID: "unowned"}, {ID: "y"}}
	if err := svc.PlayPlaylistTrack(tracks, 5); err != nil {
		t.Fatal(err)
	}
	st := (*notes)[0].state
	if !st.Entitled {
		t.Error("playlist playback should be entitled")
	}
	if st.Index != 1 {
		t.Errorf("index = %d, want clamped to 1", st.Index)
	}
	waitPlayed(t, client)
}

func TestPlayTracksResolvesEntitlement(t *testing.T) {
	albums := fakeAlbums{
		"owned":   {Purchased: true},
		"unowned": {Purchased: false},
	}

	tests := []struct {
		name    string
		albumID string
		want    bool
	}{
		{"single", "", true},
		{"owned album", "owned", true},
		{"unowned album", "unowned", false},
		{"uncached album", "missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client, notes := newTestPlayback(t, albums)
			if err := svc.PlayTracks([]*domain.Track{{ID: "t", AlbumID: tt.albumID}}, 0); err != nil {
				t.Fatal(err)
			}
			if got := (*notes)[0].state.Entitled; got != tt.want {
				t.Errorf("entitled = %v, want %v", got, tt.want)
			}
			waitPlayed(t, client)
		})
	}
}

func TestPlayEmptyQueue(t *testing.T) {
	svc, _, notes := newTestPlayback(t, nil)

	if err := svc.PlayTracks(nil, 0); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Errorf("PlayTracks err = %v", err)
	}
	if err := svc.PlayAlbumTrack(&domain.AlbumTracks{}, "x"); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Errorf("PlayAlbumTrack err = %v", err)
	}
	if err := svc.PlaySingle(nil, true); !errors.Is(err, domain.ErrEmptyQueue) {
		t.Errorf("PlaySingle err = %v", err)
	}
	if len(*notes) != 0 {
		t.Errorf("store should not be written, got %d notifications", len(*notes))
	}
}

func TestLikeInvalidatesLikedTracks(t *testing.T) {
	s, err := store.NewLibraryStore("", "")
	if err != nil {
		t.Fatal(err)
	}
	_ = s.SaveLikedTracks([]*domain.Track{{ID: "old"}})

	client := &fakeClient{}
	svc := NewLikeService(client, s, discardLogger())

	if err := svc.Like(context.Background(), "t1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetLikedTracks(); ok {
		t.Error("liked tracks should be invalidated")
	}

	_ = s.SaveLikedTracks([]*domain.Track{{ID: "old"}})
	client.err = domain.ErrServerOffline
	if err := svc.Like(context.Background(), "t2"); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := s.GetLikedTracks(); !ok {
		t.Error("failed like must keep the cache")
	}
}

func TestLogout(t *testing.T) {
	t.Setenv("ENCORE_CONFIG_DIR", t.TempDir())
	cacheDir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "library.db"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := NewSessionService(cacheDir).Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Errorf("cache dir should be removed, stat err = %v", err)
	}
}
