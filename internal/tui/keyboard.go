package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, LogoutCmd(m.svc.Session)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			playlist := m.pendingDelete
			m.pendingDelete = nil
			if playlist != nil {
				return m, DeletePlaylistCmd(m.svc.PlaylistCmds, playlist)
			}
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
			m.pendingDelete = nil
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	top := m.ColumnStack.Top()

	// Typing into a column filter swallows every key
	if !m.FocusSidebar && top != nil && top.IsFilterTyping() {
		_, cmd := top.Update(msg)
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.Transport.Status().PromptVisible {
			m.svc.Player.Dismiss()
			return m, nil
		}
		if top != nil && top.IsFiltering() {
			top.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.TogglePlay):
		m.svc.Player.TogglePlay()
		return m, nil

	case key.Matches(msg, Keys.Next):
		if !m.svc.Player.SkipNext() {
			return m, m.setStatus("End of queue", false)
		}
		return m, nil

	case key.Matches(msg, Keys.Previous):
		if !m.svc.Player.SkipPrevious() {
			return m, m.setStatus("Start of queue", false)
		}
		return m, nil

	case key.Matches(msg, Keys.SeekForward):
		m.svc.Player.SeekBy(seekStep)
		return m, nil

	case key.Matches(msg, Keys.SeekBack):
		m.svc.Player.SeekBy(-seekStep)
		return m, nil

	case key.Matches(msg, Keys.NextSection):
		return m, m.openSection(m.Sidebar.Next(), false)

	case key.Matches(msg, Keys.PrevSection):
		n := len(components.DefaultSections())
		m.Sidebar.SetSelectedIndex((m.Sidebar.SelectedIndex() + n - 1) % n)
		sec, _ := m.Sidebar.SelectedSection()
		return m, m.openSection(sec, false)

	case key.Matches(msg, Keys.GlobalSearch):
		m.GlobalSearch.Show()
		m.GlobalSearch.SetSize(m.Width, m.Height)
		return m, m.GlobalSearch.Init()

	case key.Matches(msg, Keys.NewPlaylist):
		m.InputModal.Show("New Playlist")
		return m, nil

	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
		return m, nil
	}

	if m.FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleColumnKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Enter, Keys.Right):
		sec, ok := m.Sidebar.SelectedSection()
		if !ok {
			return m, nil
		}
		if sec.Key() == m.Section.Key() {
			m.setFocusSidebar(false)
			return m, nil
		}
		return m, m.openSection(sec, false)
	}

	var cmd tea.Cmd
	m.Sidebar, cmd = m.Sidebar.Update(msg)
	return m, cmd
}

func (m Model) handleColumnKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := m.ColumnStack.Top()
	if top == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Filter):
		top.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Back):
		return m.handleBack()

	case key.Matches(msg, Keys.Right):
		if item := top.SelectedItem(); item != nil && item.CanDrillDown() {
			return m, m.drillInto(item)
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		return m.handleEnter()

	case key.Matches(msg, Keys.Refresh):
		return m, m.refreshTop()

	case key.Matches(msg, Keys.Like):
		if t := top.SelectedTrack(); t != nil {
			return m, LikeCmd(m.svc.Likes, t.ID)
		}
		return m, nil

	case key.Matches(msg, Keys.PlaylistModal):
		if t := top.SelectedTrack(); t != nil {
			return m, LoadPlaylistMembershipCmd(m.svc.PlaylistCmds, t)
		}
		return m, nil

	case key.Matches(msg, Keys.Follow):
		if artist := m.focusedArtist(); artist != nil {
			return m, ToggleFollowCmd(m.svc.LibraryCmds, artist)
		}
		return m, nil

	case key.Matches(msg, Keys.Buy):
		return m, m.buyFocusedAlbum()

	case key.Matches(msg, Keys.Delete):
		p, ok := top.SelectedItem().(*domain.Playlist)
		if ok && p.Kind == domain.PlaylistKindPersonal {
			m.pendingDelete = p
			m.State = StateConfirmDelete
		}
		return m, nil
	}

	_, cmd := top.Update(msg)
	return m, cmd
}

// routeToModal sends keys to whichever modal is open
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case m.PurchaseModal.IsVisible():
		switch m.PurchaseModal.HandleKeyMsg(msg) {
		case components.PurchaseCheckout:
			album := m.PurchaseModal.Album()
			m.PurchaseModal.SetPending()
			return true, m, CheckoutCmd(m.svc.LibraryCmds, album, m.svc.Email)
		case components.PurchaseClose:
			m.closePurchaseModal()
		}
		return true, m, nil

	case m.GlobalSearch.IsVisible():
		var cmd tea.Cmd
		var selected bool
		m.GlobalSearch, cmd, selected = m.GlobalSearch.Update(msg)
		if selected {
			item := m.GlobalSearch.Selected()
			m.GlobalSearch.Hide()
			return true, m, m.openSearchResult(item)
		}
		if m.GlobalSearch.QueryChanged() {
			m.GlobalSearch.SetResults(m.svc.Search.FilterLocal(m.GlobalSearch.Query(), nil))
		}
		return true, m, cmd

	case m.PlaylistModal.IsVisible():
		_, shouldClose, shouldCreate := m.PlaylistModal.HandleKeyMsg(msg)
		track := m.PlaylistModal.Track()
		switch {
		case shouldCreate:
			title := m.PlaylistModal.NewPlaylistTitle()
			m.PlaylistModal.Hide()
			return true, m, CreatePlaylistCmd(m.svc.PlaylistCmds, title, track)
		case shouldClose:
			additions := m.PlaylistModal.Additions()
			m.PlaylistModal.Hide()
			if len(additions) > 0 && track != nil {
				return true, m, AddToPlaylistsCmd(m.svc.PlaylistCmds, track, additions)
			}
		}
		return true, m, nil

	case m.InputModal.IsVisible():
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			title := m.InputModal.Value()
			m.InputModal.Hide()
			return true, m, CreatePlaylistCmd(m.svc.PlaylistCmds, title, nil)
		}
		return true, m, cmd
	}

	return false, m, nil
}

// handleBack pops a column, or moves focus to the sidebar at the root
func (m Model) handleBack() (tea.Model, tea.Cmd) {
	if !m.ColumnStack.CanGoBack() {
		m.setFocusSidebar(true)
		return m, nil
	}
	_, cursor := m.ColumnStack.Pop()
	if top := m.ColumnStack.Top(); top != nil {
		top.SetSelectedIndex(cursor)
	}
	m.updateLayout()
	return m, nil
}

// handleEnter drills into containers and plays tracks
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	top := m.ColumnStack.Top()
	item := top.SelectedItem()
	if item == nil {
		return m, nil
	}
	if item.CanDrillDown() {
		return m, m.drillInto(item)
	}
	if _, ok := item.(*domain.Track); ok {
		if err := m.playFromColumn(top); err != nil {
			return m, m.setStatus("Playback: "+err.Error(), true)
		}
	}
	return m, nil
}

// playFromColumn starts playback of the selected track with the column as queue
func (m *Model) playFromColumn(col *components.ListColumn) error {
	track := col.SelectedTrack()
	tracks, index := col.Tracks()

	switch col.ColumnType() {
	case components.ColumnTypeAlbumTracks:
		album, ok := m.svc.Library.GetCachedAlbumTracks(col.ContextID())
		if !ok {
			return m.svc.Playback.PlayTracks(tracks, index)
		}
		// Preview cuts are not part of the album queue
		if !track.IsFull() {
			return m.svc.Playback.PlaySingle(track, album.Purchased)
		}
		return m.svc.Playback.PlayAlbumTrack(album, track.ID)
	case components.ColumnTypePlaylistTracks:
		return m.svc.Playback.PlayPlaylistTrack(tracks, index)
	default:
		return m.svc.Playback.PlayTracks(tracks, index)
	}
}

// drillInto pushes a child column for an album, artist or playlist
func (m *Model) drillInto(item domain.ListItem) tea.Cmd {
	parent := m.ColumnStack.Top()
	cursor := 0
	if parent != nil {
		cursor = parent.SelectedIndex()
	}

	var col *components.ListColumn
	var cmd tea.Cmd

	switch v := item.(type) {
	case *domain.Album:
		col = components.NewItemsColumn(components.ColumnTypeAlbumTracks, v.Title, v.ID, nil)
		if album, ok := m.svc.Library.GetCachedAlbumTracks(v.ID); ok {
			col.SetItems(listItems(album.Tracks))
		} else {
			col.SetLoading(true)
			cmd = LoadAlbumTracksCmd(m.svc.LibraryCmds, v.ID)
		}

	case *domain.Artist:
		col = components.NewItemsColumn(components.ColumnTypeMixed, v.Name, v.ID, nil)
		albums, okAlbums := m.svc.Library.GetCachedArtistAlbums(v.ID)
		tracks, okTracks := m.svc.Library.GetCachedArtistTracks(v.ID)
		if okAlbums && okTracks {
			col.SetItems(artistItems(albums, tracks))
		} else {
			col.SetLoading(true)
			cmd = LoadArtistDetailCmd(m.svc.LibraryCmds, v.ID)
		}

	case *domain.Playlist:
		col = components.NewItemsColumn(components.ColumnTypePlaylistTracks, v.Title, v.ID, nil)
		if tracks, ok := m.svc.Playlists.GetCachedPlaylistTracks(v.ID); ok {
			col.SetItems(listItems(tracks))
		} else {
			col.SetLoading(true)
			cmd = LoadPlaylistTracksCmd(m.svc.PlaylistCmds, v.ID)
		}

	default:
		return nil
	}

	m.setFocusSidebar(false)
	m.ColumnStack.Push(col, cursor)
	m.updateLayout()
	return cmd
}

// openSearchResult navigates to a global search hit
func (m *Model) openSearchResult(item domain.ListItem) tea.Cmd {
	switch v := item.(type) {
	case nil:
		return nil
	case *domain.Track:
		if err := m.svc.Playback.PlayTracks([]*domain.Track{v}, 0); err != nil {
			return m.setStatus("Playback: "+err.Error(), true)
		}
		return nil
	default:
		return m.drillInto(v)
	}
}

// refreshTop drops the cache behind the focused column and refetches it
func (m *Model) refreshTop() tea.Cmd {
	top := m.ColumnStack.Top()
	if top == nil {
		return nil
	}
	if !m.ColumnStack.CanGoBack() {
		return m.openSection(m.Section, true)
	}

	id := top.ContextID()
	top.SetLoading(true)
	switch top.ColumnType() {
	case components.ColumnTypeAlbumTracks:
		m.svc.LibraryCmds.InvalidateAlbum(id)
		return LoadAlbumTracksCmd(m.svc.LibraryCmds, id)
	case components.ColumnTypeMixed:
		m.svc.LibraryCmds.InvalidateArtist(id)
		return LoadArtistDetailCmd(m.svc.LibraryCmds, id)
	case components.ColumnTypePlaylistTracks:
		m.svc.PlaylistCmds.InvalidatePlaylistTracks(id)
		return LoadPlaylistTracksCmd(m.svc.PlaylistCmds, id)
	}
	top.SetLoading(false)
	return nil
}

// focusedArtist returns the selected artist or the artist a column was opened from
func (m *Model) focusedArtist() *domain.Artist {
	top := m.ColumnStack.Top()
	if a, ok := top.SelectedItem().(*domain.Artist); ok {
		return a
	}
	if top.ColumnType() == components.ColumnTypeMixed {
		if parent := m.ColumnStack.Parent(); parent != nil {
			if a, ok := parent.SelectedItem().(*domain.Artist); ok && a.ID == top.ContextID() {
				return a
			}
		}
	}
	return nil
}

// buyFocusedAlbum opens the purchase modal for the album in focus
func (m *Model) buyFocusedAlbum() tea.Cmd {
	top := m.ColumnStack.Top()

	albumID := ""
	switch {
	case top.SelectedAlbum() != nil:
		a := top.SelectedAlbum()
		if a.Purchased {
			return m.setStatus("You own "+a.Title, false)
		}
		m.PurchaseModal.Show(a, "")
		return nil
	case top.ColumnType() == components.ColumnTypeAlbumTracks:
		albumID = top.ContextID()
	case top.SelectedTrack() != nil:
		albumID = top.SelectedTrack().AlbumID
	}

	if albumID == "" {
		if s := m.Transport.Status(); s.HasTrack {
			albumID = s.Track.AlbumID
		}
	}
	if albumID == "" {
		return m.setStatus("Nothing to buy here", false)
	}

	if album, ok := m.svc.Library.GetCachedAlbumTracks(albumID); ok {
		a := album.Album
		a.Purchased = album.Purchased
		return func() tea.Msg { return PurchaseAlbumMsg{Album: &a} }
	}
	return LoadPurchaseAlbumCmd(m.svc.LibraryCmds, albumID, "")
}
