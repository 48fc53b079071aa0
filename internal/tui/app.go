package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/player"
	"github.com/mmcdole/encore/internal/search"
	"github.com/mmcdole/encore/internal/service"
	"github.com/mmcdole/encore/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmLogout
	StateConfirmDelete
)

const (
	tickInterval   = 100 * time.Millisecond
	statusDuration = 3 * time.Second
	seekStep       = 10 * time.Second
)

// PlayerControls is the slice of the playback engine the UI drives
type PlayerControls interface {
	TogglePlay()
	SeekBy(delta time.Duration)
	Dismiss()
	SkipNext() bool
	SkipPrevious() bool
	Status() player.Status
}

// Services bundles everything the UI talks to
type Services struct {
	Library      domain.LibraryQueries
	LibraryCmds  domain.LibraryCommands
	Playlists    domain.PlaylistQueries
	PlaylistCmds domain.PlaylistCommands
	Search       *search.Service
	Playback     *service.PlaybackService
	Likes        *service.LikeService
	Session      *service.SessionService
	Player       PlayerControls
	Observer     *ChannelObserver

	// Email of the signed-in listener, sent with checkouts
	Email  string
	Logger *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Ready bool

	svc Services

	// UI Components - Miller Columns
	Sidebar       components.Sidebar
	ColumnStack   *ColumnStack
	GlobalSearch  components.GlobalSearch
	PlaylistModal components.PlaylistModal
	InputModal    components.InputModal
	PurchaseModal components.PurchaseModal
	Transport     components.Transport

	FocusSidebar bool
	Section      components.Section

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	// Playlist awaiting delete confirmation
	pendingDelete *domain.Playlist

	// LoggedOut is set when the session ends through logout
	LoggedOut bool
}

// NewModel creates a new application model opened on the first section
func NewModel(svc Services) Model {
	if svc.Logger == nil {
		svc.Logger = slog.Default()
	}

	sections := components.DefaultSections()
	m := Model{
		State:         StateBrowsing,
		svc:           svc,
		Sidebar:       components.NewSidebar(sections),
		ColumnStack:   NewColumnStack(),
		GlobalSearch:  components.NewGlobalSearch(),
		PlaylistModal: components.NewPlaylistModal(),
		InputModal:    components.NewInputModal(),
		PurchaseModal: components.NewPurchaseModal(),
		Transport:     components.NewTransport(),
		Section:       sections[0],
	}
	m.resetSection(sections[0], false)
	if svc.Player != nil {
		m.Transport.SetStatus(svc.Player.Status())
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadSectionCmd(m.svc.LibraryCmds, m.svc.PlaylistCmds, m.Section, false),
		TickCmd(tickInterval),
	}
	if m.svc.Observer != nil {
		cmds = append(cmds, m.svc.Observer.Wait())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.ColumnStack.UpdateSpinnerFrame(m.SpinnerFrame)
		m.Sidebar.SetSpinnerFrame(m.SpinnerFrame)
		m.Transport.SetSpinnerFrame(m.SpinnerFrame)
		m.PurchaseModal.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(tickInterval)

	case PlayerStatusMsg:
		cmd := m.handlePlayerStatus(msg.Status)
		return m, tea.Batch(cmd, m.svc.Observer.Wait())

	case SectionLoadedMsg:
		m.Sidebar.SetLoading(msg.Section, false)
		if col := m.ColumnStack.Find(sectionColumnType(msg.Section), msg.Section.Key()); col != nil {
			col.SetItems(msg.Items)
		}
		return m, nil

	case SectionErrMsg:
		m.Sidebar.SetLoading(msg.Section, false)
		if col := m.ColumnStack.Find(sectionColumnType(msg.Section), msg.Section.Key()); col != nil {
			col.SetLoading(false)
		}
		return m, m.setStatus("Loading "+msg.Section.Name+": "+msg.Err.Error(), true)

	case AlbumTracksLoadedMsg:
		if col := m.ColumnStack.Find(components.ColumnTypeAlbumTracks, msg.AlbumID); col != nil {
			col.SetTitle(msg.Album.Album.Title)
			col.SetItems(listItems(msg.Album.Tracks))
		}
		return m, nil

	case ArtistDetailLoadedMsg:
		if col := m.ColumnStack.Find(components.ColumnTypeMixed, msg.ArtistID); col != nil {
			col.SetItems(artistItems(msg.Albums, msg.Tracks))
		}
		return m, nil

	case PlaylistTracksLoadedMsg:
		if col := m.ColumnStack.Find(components.ColumnTypePlaylistTracks, msg.PlaylistID); col != nil {
			col.SetItems(listItems(msg.Tracks))
		}
		return m, nil

	case PlaylistMembershipMsg:
		m.PlaylistModal.Show(msg.Playlists, msg.Membership, msg.Track)
		return m, nil

	case PlaylistCreatedMsg:
		cmds := []tea.Cmd{
			m.setStatus(fmt.Sprintf("Created playlist %q", msg.Playlist.Title), false),
			m.reloadPersonalPlaylists(),
		}
		if msg.AddTrack != nil {
			cmds = append(cmds, AddToPlaylistsCmd(m.svc.PlaylistCmds, msg.AddTrack, []string{msg.Playlist.ID}))
		}
		return m, tea.Batch(cmds...)

	case AddedToPlaylistsMsg:
		text := fmt.Sprintf("Added %q to %d playlists", msg.Track.Title, msg.Count)
		if msg.Count == 1 {
			text = fmt.Sprintf("Added %q to playlist", msg.Track.Title)
		}
		return m, m.setStatus(text, false)

	case PlaylistDeletedMsg:
		return m, tea.Batch(
			m.setStatus(fmt.Sprintf("Deleted playlist %q", msg.Title), false),
			m.reloadPersonalPlaylists(),
		)

	case LikeToggledMsg:
		liked := m.flipLiked(msg.TrackID)
		text := "Removed like"
		if liked {
			text = "Liked"
		}
		return m, m.setStatus(text, false)

	case FollowToggledMsg:
		text := "Unfollowed " + msg.Artist.Name
		if msg.Following {
			text = "Following " + msg.Artist.Name
		}
		return m, m.setStatus(text, false)

	case PurchaseAlbumMsg:
		if msg.Album.Purchased {
			return m, m.setStatus("You own "+msg.Album.Title, false)
		}
		m.PurchaseModal.Show(msg.Album, msg.Reason)
		return m, nil

	case CheckoutCreatedMsg:
		m.PurchaseModal.SetCheckout(msg.Checkout)
		return m, nil

	case CheckoutFailedMsg:
		if errors.Is(msg.Err, domain.ErrAlreadyPurchased) {
			m.closePurchaseModal()
			return m, m.setStatus("Album already purchased", false)
		}
		m.PurchaseModal.SetError(msg.Err)
		return m, nil

	case LogoutCompleteMsg:
		m.LoggedOut = true
		return m, tea.Quit

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		m.stopLoading()
		m.svc.Logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)
	}

	// Route remaining messages (cursor blink etc.) to the active input
	var cmd tea.Cmd
	switch {
	case m.GlobalSearch.IsVisible():
		m.GlobalSearch, cmd, _ = m.GlobalSearch.Update(msg)
	case m.InputModal.IsVisible():
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
	}
	return m, cmd
}

// handlePlayerStatus applies an engine snapshot and opens the purchase
// prompt when the preview gate closes
func (m *Model) handlePlayerStatus(s player.Status) tea.Cmd {
	wasPrompt := m.Transport.Status().PromptVisible
	if !m.Transport.SetStatus(s) {
		return nil
	}

	trackID := ""
	if s.HasTrack {
		trackID = s.Track.ID
	}
	m.ColumnStack.SetNowPlaying(trackID, s.Playing())

	if !s.PromptVisible || wasPrompt || m.PurchaseModal.IsVisible() || s.Track.AlbumID == "" {
		return nil
	}

	const reason = "The preview has ended. Buy the album to keep listening."
	if album, ok := m.svc.Library.GetCachedAlbumTracks(s.Track.AlbumID); ok {
		a := album.Album
		a.Purchased = album.Purchased
		m.PurchaseModal.Show(&a, reason)
		return nil
	}
	return LoadPurchaseAlbumCmd(m.svc.LibraryCmds, s.Track.AlbumID, reason)
}

// closePurchaseModal hides the modal and releases a blocked engine
func (m *Model) closePurchaseModal() {
	m.PurchaseModal.Hide()
	if m.svc.Player != nil && m.svc.Player.Status().PromptVisible {
		m.svc.Player.Dismiss()
	}
}

// setStatus shows a transient footer message
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusDuration)
}

// stopLoading clears every column spinner after a failed fetch
func (m *Model) stopLoading() {
	for _, col := range m.ColumnStack.Columns() {
		if col.IsLoading() {
			col.SetLoading(false)
		}
	}
}

// flipLiked toggles the like flag on every distinct loaded copy of a track
// and reports the new state
func (m *Model) flipLiked(trackID string) bool {
	seen := make(map[*domain.Track]bool)
	liked := false
	for _, col := range m.ColumnStack.Columns() {
		for _, item := range col.Items() {
			t, ok := item.(*domain.Track)
			if !ok || t.ID != trackID || seen[t] {
				continue
			}
			seen[t] = true
			t.Liked = !t.Liked
			liked = t.Liked
		}
	}
	return liked
}

// reloadPersonalPlaylists refreshes the personal playlist listing if it is open
func (m *Model) reloadPersonalPlaylists() tea.Cmd {
	sec := components.Section{Kind: components.SectionPlaylists, PlaylistKind: domain.PlaylistKindPersonal}
	col := m.ColumnStack.Find(components.ColumnTypePlaylists, sec.Key())
	if col == nil {
		return nil
	}
	sec.Name = col.Title()
	col.SetLoading(true)
	return LoadSectionCmd(m.svc.LibraryCmds, m.svc.PlaylistCmds, sec, true)
}

// resetSection replaces the column stack with a section's root column,
// filled from cache when possible. It reports whether a fetch is needed.
func (m *Model) resetSection(sec components.Section, force bool) bool {
	m.Section = sec
	col := components.NewItemsColumn(sectionColumnType(sec), sec.Name, sec.Key(), nil)

	items, cached := m.cachedSection(sec)
	if cached && !force {
		col.SetItems(items)
	} else {
		col.SetLoading(true)
	}

	m.ColumnStack.Reset(col)
	m.setFocusSidebar(false)
	m.updateLayout()

	// Playlists go through the TTL-aware load even when cached
	needsFetch := !cached || force || sec.Kind == components.SectionPlaylists
	if needsFetch {
		m.Sidebar.SetLoading(sec, true)
	}
	return needsFetch
}

// openSection switches to a section and returns the fetch command, if any
func (m *Model) openSection(sec components.Section, force bool) tea.Cmd {
	if !m.resetSection(sec, force) {
		return nil
	}
	return LoadSectionCmd(m.svc.LibraryCmds, m.svc.PlaylistCmds, sec, force)
}

func (m *Model) cachedSection(sec components.Section) ([]domain.ListItem, bool) {
	lib := m.svc.Library
	switch sec.Kind {
	case components.SectionAlbums:
		albums, ok := lib.GetCachedAlbums(sec.AlbumSection)
		return listItems(albums), ok
	case components.SectionArtists:
		artists, ok := lib.GetCachedArtists()
		return listItems(artists), ok
	case components.SectionCharts:
		tracks, ok := lib.GetCachedCharts()
		return listItems(tracks), ok
	case components.SectionLiked:
		tracks, ok := lib.GetCachedLikedTracks()
		return listItems(tracks), ok
	case components.SectionPlaylists:
		playlists, ok := m.svc.Playlists.GetCachedPlaylists(sec.PlaylistKind)
		return listItems(playlists), ok
	}
	// Home is never cached
	return nil, false
}

func (m *Model) setFocusSidebar(focus bool) {
	m.FocusSidebar = focus
	m.Sidebar.SetFocused(focus)
	if top := m.ColumnStack.Top(); top != nil {
		top.SetFocused(!focus)
	}
}

func sectionColumnType(sec components.Section) components.ColumnType {
	switch sec.Kind {
	case components.SectionAlbums:
		return components.ColumnTypeAlbums
	case components.SectionArtists:
		return components.ColumnTypeArtists
	case components.SectionCharts, components.SectionLiked:
		return components.ColumnTypeTracks
	case components.SectionPlaylists:
		return components.ColumnTypePlaylists
	}
	return components.ColumnTypeMixed
}

// listItems widens a typed slice of entities to list items
func listItems[T domain.ListItem](xs []T) []domain.ListItem {
	return lo.Map(xs, func(x T, _ int) domain.ListItem { return x })
}

// dashboardItems flattens the home screen into one mixed listing
func dashboardItems(d *domain.Dashboard) []domain.ListItem {
	if d == nil {
		return nil
	}
	items := listItems(d.TopAlbums)
	items = append(items, listItems(d.TrendingArtists)...)
	items = append(items, listItems(d.Charts)...)
	items = append(items, listItems(d.RecentlyPlayed)...)
	return items
}

// artistItems lists an artist's albums ahead of their tracks
func artistItems(albums []*domain.Album, tracks []*domain.Track) []domain.ListItem {
	return append(listItems(albums), listItems(tracks)...)
}
