package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/tui/styles"
)

// SectionKind identifies what a sidebar entry opens
type SectionKind int

const (
	SectionHome SectionKind = iota
	SectionAlbums
	SectionArtists
	SectionCharts
	SectionLiked
	SectionPlaylists
)

// Section is one browsable catalog listing
type Section struct {
	Kind         SectionKind
	Name         string
	AlbumSection domain.AlbumSection // For SectionAlbums
	PlaylistKind domain.PlaylistKind // For SectionPlaylists
}

// Key returns a stable identifier for the section
func (s Section) Key() string {
	switch s.Kind {
	case SectionAlbums:
		return "albums:" + string(s.AlbumSection)
	case SectionPlaylists:
		return "playlists:" + string(s.PlaylistKind)
	}
	return s.Name
}

// DefaultSections lists the sidebar entries in display order
func DefaultSections() []Section {
	return []Section{
		{Kind: SectionHome, Name: "Home"},
		{Kind: SectionAlbums, Name: "New Releases", AlbumSection: domain.AlbumSectionNew},
		{Kind: SectionAlbums, Name: "Top Albums", AlbumSection: domain.AlbumSectionTop},
		{Kind: SectionAlbums, Name: "Trending", AlbumSection: domain.AlbumSectionTrending},
		{Kind: SectionAlbums, Name: "All Albums", AlbumSection: domain.AlbumSectionAll},
		{Kind: SectionArtists, Name: "Artists"},
		{Kind: SectionCharts, Name: "Charts"},
		{Kind: SectionLiked, Name: "Liked"},
		{Kind: SectionPlaylists, Name: "My Playlists", PlaylistKind: domain.PlaylistKindPersonal},
		{Kind: SectionPlaylists, Name: "Community", PlaylistKind: domain.PlaylistKindCommunity},
		{Kind: SectionPlaylists, Name: "Popular", PlaylistKind: domain.PlaylistKindPopular},
	}
}

// SectionItem implements list.Item for sections
type SectionItem struct {
	Section Section
	Loading bool
	Frame   int
}

func (i SectionItem) FilterValue() string { return i.Section.Name }

func (i SectionItem) Title() string {
	if i.Loading {
		return styles.SpinnerFrames[i.Frame%len(styles.SpinnerFrames)] + " " + i.Section.Name
	}
	return "  " + i.Section.Name
}

func (i SectionItem) Description() string { return "" }

// Border overhead for the sidebar panel
const BorderSize = 2

// Sidebar is the section selection sidebar component
type Sidebar struct {
	list         list.Model
	focused      bool
	width        int
	height       int
	sections     []Section
	loading      map[string]bool
	spinnerFrame int
}

// NewSidebar creates a new sidebar component
func NewSidebar(sections []Section) Sidebar {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(styles.White).
		Background(styles.SlateLight).
		Padding(0, 1)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(styles.LightGray).
		Padding(0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Encore"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true).
		Padding(0, 1)

	s := Sidebar{
		list:     l,
		sections: sections,
		loading:  make(map[string]bool),
	}
	s.refreshItems()
	return s
}

// SetLoading marks a section as fetching
func (s *Sidebar) SetLoading(section Section, loading bool) {
	if loading {
		s.loading[section.Key()] = true
	} else {
		delete(s.loading, section.Key())
	}
	s.refreshItems()
}

// SetSpinnerFrame updates the spinner animation frame
func (s *Sidebar) SetSpinnerFrame(frame int) {
	s.spinnerFrame = frame
	if len(s.loading) > 0 {
		s.refreshItems()
	}
}

func (s *Sidebar) refreshItems() {
	items := make([]list.Item, len(s.sections))
	for i, sec := range s.sections {
		items[i] = SectionItem{
			Section: sec,
			Loading: s.loading[sec.Key()],
			Frame:   s.spinnerFrame,
		}
	}
	s.list.SetItems(items)
}

// SetSize updates the component dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.list.SetSize(width-BorderSize, height-BorderSize)
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s Sidebar) IsFocused() bool {
	return s.focused
}

// SelectedSection returns the currently selected section
func (s Sidebar) SelectedSection() (Section, bool) {
	item, ok := s.list.SelectedItem().(SectionItem)
	if !ok {
		return Section{}, false
	}
	return item.Section, true
}

// SelectedIndex returns the selected index
func (s Sidebar) SelectedIndex() int {
	return s.list.Index()
}

// SetSelectedIndex sets the selected index
func (s *Sidebar) SetSelectedIndex(index int) {
	s.list.Select(index)
}

// Next selects the following section, wrapping around
func (s *Sidebar) Next() Section {
	n := len(s.sections)
	if n == 0 {
		return Section{}
	}
	s.list.Select((s.list.Index() + 1) % n)
	sec, _ := s.SelectedSection()
	return sec
}

// Init initializes the component
func (s Sidebar) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (s Sidebar) Update(msg tea.Msg) (Sidebar, tea.Cmd) {
	if !s.focused {
		return s, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, ListColumnKeys.Down):
			s.list.CursorDown()
		case key.Matches(keyMsg, ListColumnKeys.Up):
			s.list.CursorUp()
		case key.Matches(keyMsg, ListColumnKeys.Home):
			s.list.Select(0)
		case key.Matches(keyMsg, ListColumnKeys.End):
			s.list.Select(len(s.list.Items()) - 1)
		}
	}

	return s, nil
}

// View renders the component
func (s Sidebar) View() string {
	style := styles.InactiveBorder
	if s.focused {
		style = styles.ActiveBorder
	}

	// Subtract frame (border) size so total rendered size equals s.width x s.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(s.width - frameW).
		Height(s.height - frameH).
		Render(s.list.View())
}
