package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/tui/styles"
)

// PlaylistModal adds a track to personal playlists. Membership can only grow:
// playlists already holding the track are shown checked and locked.
type PlaylistModal struct {
	visible    bool
	track      *domain.Track
	playlists  []*domain.Playlist
	membership map[string]bool // playlist ID -> already holds the track
	pending    map[string]bool // playlist ID -> add on confirm

	cursor     int
	createMode bool
	newTitle   textinput.Model

	width  int
	height int
}

// NewPlaylistModal creates a new playlist modal
func NewPlaylistModal() PlaylistModal {
	ti := textinput.New()
	ti.Placeholder = "Playlist name..."
	ti.Prompt = "> "
	ti.CharLimit = 60

	return PlaylistModal{
		membership: make(map[string]bool),
		pending:    make(map[string]bool),
		newTitle:   ti,
	}
}

// Show displays the modal with the given playlists and track
func (m *PlaylistModal) Show(playlists []*domain.Playlist, membership map[string]bool, track *domain.Track) {
	m.visible = true
	m.playlists = playlists
	m.track = track
	m.membership = membership
	if m.membership == nil {
		m.membership = make(map[string]bool)
	}
	m.pending = make(map[string]bool)
	m.cursor = 0
	m.createMode = false
	m.newTitle.SetValue("")
	m.newTitle.Blur()
}

// Hide dismisses the modal
func (m *PlaylistModal) Hide() {
	m.visible = false
	m.createMode = false
	m.newTitle.Blur()
}

// IsVisible returns whether the modal is shown
func (m *PlaylistModal) IsVisible() bool {
	return m.visible
}

// IsCreateMode returns whether we're creating a new playlist
func (m *PlaylistModal) IsCreateMode() bool {
	return m.createMode
}

// Track returns the track being added
func (m *PlaylistModal) Track() *domain.Track {
	return m.track
}

// NewPlaylistTitle returns the title entered for new playlist creation
func (m *PlaylistModal) NewPlaylistTitle() string {
	return strings.TrimSpace(m.newTitle.Value())
}

// SetSize sets the modal dimensions
func (m *PlaylistModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Additions returns the playlists the track should be added to, in display order
func (m *PlaylistModal) Additions() []string {
	var ids []string
	for _, p := range m.playlists {
		if m.pending[p.ID] && !m.membership[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (m *PlaylistModal) toggle() {
	if m.cursor >= len(m.playlists) {
		m.createMode = true
		m.newTitle.Focus()
		return
	}
	id := m.playlists[m.cursor].ID
	if m.membership[id] {
		return
	}
	m.pending[id] = !m.pending[id]
}

// HandleKeyMsg processes a key message, returns (handled, shouldClose, shouldCreate)
func (m *PlaylistModal) HandleKeyMsg(msg tea.KeyMsg) (handled bool, shouldClose bool, shouldCreate bool) {
	if !m.visible {
		return false, false, false
	}

	if m.createMode {
		switch {
		case key.Matches(msg, PlaylistModalKeys.Escape):
			m.createMode = false
			m.newTitle.Blur()
			m.newTitle.SetValue("")
			return true, false, false
		case key.Matches(msg, PlaylistModalKeys.Enter):
			if m.NewPlaylistTitle() != "" {
				m.createMode = false
				m.newTitle.Blur()
				return true, false, true
			}
			return true, false, false
		default:
			m.newTitle, _ = m.newTitle.Update(msg)
			return true, false, false
		}
	}

	switch {
	case key.Matches(msg, PlaylistModalKeys.Down):
		// The "Create new" row sits after the playlists
		if m.cursor < len(m.playlists) {
			m.cursor++
		}
	case key.Matches(msg, PlaylistModalKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, PlaylistModalKeys.Toggle):
		m.toggle()
	case key.Matches(msg, PlaylistModalKeys.Create):
		m.createMode = true
		m.newTitle.Focus()
	case key.Matches(msg, PlaylistModalKeys.Enter):
		if m.cursor >= len(m.playlists) {
			m.toggle()
			return true, false, false
		}
		return true, true, false
	case key.Matches(msg, PlaylistModalKeys.Escape):
		m.pending = make(map[string]bool)
		return true, true, false
	}

	// Consume all keys when visible
	return true, false, false
}

// View renders the playlist modal
func (m *PlaylistModal) View() string {
	if !m.visible {
		return ""
	}

	modalWidth := 40
	if m.width > 0 && m.width < 60 {
		modalWidth = m.width - 10
	}
	rowWidth := modalWidth - 4

	var lines []string

	title := "Add to Playlist"
	if m.track != nil {
		title = "Add " + styles.Truncate(m.track.Title, 24)
	}
	lines = append(lines, styles.ModalTitleStyle.Render(title))

	if len(m.playlists) == 0 {
		lines = append(lines, styles.DimStyle.Render("  No playlists yet"))
	}

	for i, playlist := range m.playlists {
		member := m.membership[playlist.ID]
		checked := member || m.pending[playlist.ID]

		checkbox := "[ ]"
		if checked {
			checkbox = "[x]"
		}
		line := styles.Pad(checkbox+" "+playlist.Title, rowWidth)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case member:
			style = lipgloss.NewStyle().Foreground(styles.DimGray)
		case checked:
			style = lipgloss.NewStyle().Foreground(styles.Accent)
		}
		lines = append(lines, "  "+style.Render(line))
	}

	createLine := "[+] Create new playlist..."
	if m.createMode {
		createLine = m.newTitle.View()
	}
	createStyle := lipgloss.NewStyle().Foreground(styles.DimGray)
	if m.cursor == len(m.playlists) && !m.createMode {
		createStyle = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
	}
	lines = append(lines, "", "  "+createStyle.Render(styles.Pad(createLine, rowWidth)))

	lines = append(lines, "", styles.DimStyle.Render("space toggle · n new · enter add · esc cancel"))

	return styles.ModalStyle.
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))
}
