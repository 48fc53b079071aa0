package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/player"
	"github.com/mmcdole/encore/internal/tui/components"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return update(t, m, msg)
}

func testAlbum(purchased bool) *domain.AlbumTracks {
	return &domain.AlbumTracks{
		Album: domain.Album{ID: "al1", Title: "Record", ArtistName: "Band", Price: 7.5},
		Tracks: []*domain.Track{
			{ID: "t1", Title: "Opener", AlbumID: "al1", Type: domain.TrackTypeFull},
			{ID: "t2", Title: "Closer", AlbumID: "al1", Type: domain.TrackTypeFull},
			{ID: "t3", Title: "Teaser", AlbumID: "al1", Type: domain.TrackTypePreview},
		},
		Purchased: purchased,
	}
}

// readyModel returns a sized model with the home section loaded
func readyModel(t *testing.T) (Model, *testEnv) {
	t.Helper()
	m, env := newTestModel()
	env.lib.albums[domain.AlbumSectionTop] = []*domain.Album{{ID: "al1", Title: "Record"}}
	env.lib.albumTracks["al1"] = testAlbum(false)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	msg := LoadSectionCmd(env.lib, env.playlists, m.Section, false)()
	m, _ = update(t, m, msg)
	return m, env
}

func TestModelLoadsHomeSection(t *testing.T) {
	m, _ := readyModel(t)

	top := m.ColumnStack.Top()
	if top.ColumnType() != components.ColumnTypeMixed {
		t.Fatalf("root column type = %v, want mixed", top.ColumnType())
	}
	if top.IsLoading() {
		t.Fatal("root column still loading")
	}
	if got := len(top.Items()); got != 1 {
		t.Fatalf("root items = %d, want 1", got)
	}
	if view := m.View(); view == "" || view == "Loading..." {
		t.Fatalf("unexpected view %q", view)
	}
}

func TestEnterDrillsIntoAlbumAndPlays(t *testing.T) {
	m, env := readyModel(t)

	m, cmd := press(t, m, "enter")
	if m.ColumnStack.Len() != 2 {
		t.Fatalf("stack depth = %d, want 2", m.ColumnStack.Len())
	}
	top := m.ColumnStack.Top()
	if top.ColumnType() != components.ColumnTypeAlbumTracks || !top.IsLoading() {
		t.Fatal("expected a loading album column")
	}
	if cmd == nil {
		t.Fatal("expected a load command")
	}

	m, _ = update(t, m, cmd())
	if got := len(m.ColumnStack.Top().Items()); got != 3 {
		t.Fatalf("album rows = %d, want 3", got)
	}

	// Second row plays the album queue from that track
	m, _ = press(t, m, "j")
	m, _ = press(t, m, "enter")
	st := env.store.Snapshot()
	if st.CurrentTrack == nil || st.CurrentTrack.ID != "t2" {
		t.Fatalf("current track = %v, want t2", st.CurrentTrack)
	}
	if len(st.Queue) != 2 || st.Entitled {
		t.Fatalf("queue = %d entitled = %v, want 2 full tracks unentitled", len(st.Queue), st.Entitled)
	}

	// Preview cuts play on their own
	m, _ = press(t, m, "j")
	press(t, m, "enter")
	st = env.store.Snapshot()
	if st.CurrentTrack.ID != "t3" || len(st.Queue) != 1 {
		t.Fatalf("preview playback = %s with queue %d", st.CurrentTrack.ID, len(st.Queue))
	}
}

func TestBackAtRootFocusesSidebar(t *testing.T) {
	m, _ := readyModel(t)

	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "h")
	if m.ColumnStack.Len() != 1 || m.FocusSidebar {
		t.Fatal("first back should pop the album column")
	}

	m, _ = press(t, m, "h")
	if !m.FocusSidebar {
		t.Fatal("back at root should focus the sidebar")
	}
}

func TestTransportKeys(t *testing.T) {
	m, env := readyModel(t)

	m, _ = press(t, m, " ")
	m, _ = press(t, m, "right")
	m, _ = press(t, m, "left")
	press(t, m, "n")

	if env.player.toggles != 1 {
		t.Errorf("toggles = %d, want 1", env.player.toggles)
	}
	if want := []time.Duration{seekStep, -seekStep}; fmt.Sprint(env.player.seeks) != fmt.Sprint(want) {
		t.Errorf("seeks = %v, want %v", env.player.seeks, want)
	}
	if env.player.skipped != 1 {
		t.Errorf("skips = %d, want 1", env.player.skipped)
	}
}

func TestPreviewPromptOpensPurchaseModal(t *testing.T) {
	m, env := readyModel(t)
	env.lib.cached["al1"] = testAlbum(false)

	status := player.Status{
		Seq:           3,
		State:         player.StateBlocked,
		HasTrack:      true,
		Track:         domain.Track{ID: "t1", AlbumID: "al1"},
		PromptVisible: true,
	}
	env.player.status = status
	m, _ = update(t, m, PlayerStatusMsg{Status: status})
	if !m.PurchaseModal.IsVisible() {
		t.Fatal("purchase modal should open on the preview prompt")
	}
	if m.PurchaseModal.Album().ID != "al1" {
		t.Fatalf("offered album = %s", m.PurchaseModal.Album().ID)
	}

	// A stale snapshot does not reopen a dismissed prompt
	m, _ = press(t, m, "esc")
	if m.PurchaseModal.IsVisible() || env.player.dismissed != 1 {
		t.Fatalf("esc should close and dismiss, dismissed = %d", env.player.dismissed)
	}
	status.Seq = 2
	m, _ = update(t, m, PlayerStatusMsg{Status: status})
	if m.PurchaseModal.IsVisible() {
		t.Fatal("stale snapshot reopened the modal")
	}
}

func TestCheckoutFlow(t *testing.T) {
	m, env := readyModel(t)

	m, _ = update(t, m, PurchaseAlbumMsg{Album: &domain.Album{ID: "al1", Title: "Record", Price: 7.5}})
	if !m.PurchaseModal.IsVisible() {
		t.Fatal("modal should be visible")
	}

	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("expected checkout command")
	}
	m, _ = update(t, m, cmd())
	if got := m.PurchaseModal.CheckoutURL(); got != "https://example.com/pay/cs_1" {
		t.Fatalf("checkout url = %q", got)
	}
	if len(env.lib.purchased) != 1 {
		t.Fatalf("purchases = %v", env.lib.purchased)
	}
}

func TestCheckoutAlreadyPurchasedClosesModal(t *testing.T) {
	m, env := readyModel(t)
	env.lib.purchaseErr = fmt.Errorf("checkout: %w", domain.ErrAlreadyPurchased)

	m, _ = update(t, m, PurchaseAlbumMsg{Album: &domain.Album{ID: "al1", Title: "Record"}})
	m, cmd := press(t, m, "enter")
	m, _ = update(t, m, cmd())

	if m.PurchaseModal.IsVisible() {
		t.Fatal("modal should close when the album is already owned")
	}
	if m.StatusMsg == "" || m.StatusIsErr {
		t.Fatalf("status = %q (err %v)", m.StatusMsg, m.StatusIsErr)
	}
}

func TestOwnedAlbumSkipsModal(t *testing.T) {
	m, _ := readyModel(t)

	m, _ = update(t, m, PurchaseAlbumMsg{Album: &domain.Album{ID: "al1", Title: "Record", Purchased: true}})
	if m.PurchaseModal.IsVisible() {
		t.Fatal("owned album should not open the modal")
	}
}

func TestDeletePersonalPlaylist(t *testing.T) {
	m, env := readyModel(t)
	env.playlists.playlists[domain.PlaylistKindPersonal] = []*domain.Playlist{
		{ID: "p1", Title: "Mine", Kind: domain.PlaylistKindPersonal},
	}

	var personal components.Section
	for _, sec := range components.DefaultSections() {
		if sec.Kind == components.SectionPlaylists && sec.PlaylistKind == domain.PlaylistKindPersonal {
			personal = sec
		}
	}
	cmd := m.openSection(personal, false)
	m, _ = update(t, m, cmd())

	m, _ = press(t, m, "x")
	if m.State != StateConfirmDelete {
		t.Fatalf("state = %v, want confirm delete", m.State)
	}

	m, cmd = press(t, m, "y")
	if m.State != StateBrowsing || cmd == nil {
		t.Fatal("confirm should return to browsing with a delete command")
	}
	msg, ok := cmd().(PlaylistDeletedMsg)
	if !ok || msg.PlaylistID != "p1" {
		t.Fatalf("delete result = %#v", msg)
	}
	if len(env.playlists.deleted) != 1 {
		t.Fatalf("deleted = %v", env.playlists.deleted)
	}
}

func TestDeleteIgnoresCommunityPlaylists(t *testing.T) {
	m, env := readyModel(t)
	env.playlists.playlists[domain.PlaylistKindCommunity] = []*domain.Playlist{
		{ID: "c1", Title: "Theirs", Kind: domain.PlaylistKindCommunity},
	}

	sec := components.Section{Kind: components.SectionPlaylists, Name: "Community", PlaylistKind: domain.PlaylistKindCommunity}
	cmd := m.openSection(sec, false)
	m, _ = update(t, m, cmd())

	m, _ = press(t, m, "x")
	if m.State != StateBrowsing {
		t.Fatal("community playlists cannot be deleted")
	}
}

func TestLikeToggledFlipsLoadedTracks(t *testing.T) {
	m, _ := readyModel(t)
	shared := &domain.Track{ID: "t9", Title: "Shared"}
	m.ColumnStack.Top().SetItems([]domain.ListItem{shared, shared})

	m, _ = update(t, m, LikeToggledMsg{TrackID: "t9"})
	if !shared.Liked {
		t.Fatal("like flag should flip once per distinct track")
	}
	if m.StatusMsg != "Liked" {
		t.Fatalf("status = %q", m.StatusMsg)
	}
}

func TestPlaylistModalAddsTrack(t *testing.T) {
	m, env := readyModel(t)
	track := &domain.Track{ID: "t1", Title: "Opener"}
	playlists := []*domain.Playlist{{ID: "p1", Title: "Mine"}, {ID: "p2", Title: "Other"}}

	m, _ = update(t, m, PlaylistMembershipMsg{Track: track, Playlists: playlists, Membership: map[string]bool{"p1": true}})
	m, _ = press(t, m, "j")
	m, _ = press(t, m, " ")
	m, cmd := press(t, m, "enter")
	if m.PlaylistModal.IsVisible() || cmd == nil {
		t.Fatal("enter should close the modal with an add command")
	}

	msg, ok := cmd().(AddedToPlaylistsMsg)
	if !ok || msg.Count != 1 {
		t.Fatalf("add result = %#v", msg)
	}
	if got := env.playlists.added["p2"]; len(got) != 1 || got[0] != "t1" {
		t.Fatalf("added = %v", env.playlists.added)
	}
}
