package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// ListColumn is a scrollable list of catalog items with an inline filter.
type ListColumn struct {
	items      []domain.ListItem
	columnType ColumnType

	// contextID is the album, artist or playlist the column was drilled from
	contextID string

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	loading      bool
	spinnerFrame int

	// Track currently loaded in the engine, marked in track rows
	nowPlayingID string
	playing      bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
}

// NewListColumn creates a new list column with the given type and title
func NewListColumn(colType ColumnType, title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		columnType:  colType,
		title:       title,
		filterInput: ti,
	}
}

// NewItemsColumn creates a column pre-populated with items
func NewItemsColumn(colType ColumnType, title, contextID string, items []domain.ListItem) *ListColumn {
	col := NewListColumn(colType, title)
	col.contextID = contextID
	col.items = items
	return col
}

// Init implements tea.Model-style initialization
func (c *ListColumn) Init() tea.Cmd {
	return nil
}

// Update handles navigation and filter keys when focused
func (c *ListColumn) Update(msg tea.Msg) (*ListColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	// Typing into the filter
	if c.filterActive && c.filterInput.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, ListColumnKeys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(keyMsg, ListColumnKeys.Enter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return c, nil
			case keyMsg.String() == "backspace" && c.filterInput.Value() == "":
				c.clearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	// Filter results are showing but the input is blurred
	if c.filterActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, ListColumnKeys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(keyMsg, ListColumnKeys.Filter):
				c.filterInput.Focus()
				return c, nil
			}
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, ListColumnKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, ListColumnKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, ListColumnKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, ListColumnKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, ListColumnKeys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
	case key.Matches(keyMsg, ListColumnKeys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
	case key.Matches(keyMsg, ListColumnKeys.PageDown):
		c.cursor = min(c.cursor+c.maxVisible, count-1)
	case key.Matches(keyMsg, ListColumnKeys.PageUp):
		c.cursor = max(c.cursor-c.maxVisible, 0)
	}
	c.ensureVisible()

	return c, nil
}

// View renders the bordered column
func (c *ListColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	content := c.renderContent()

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(content)
}

func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) Width() int  { return c.width }
func (c *ListColumn) Height() int { return c.height }

func (c *ListColumn) SetFocused(focused bool) { c.focused = focused }
func (c *ListColumn) IsFocused() bool         { return c.focused }

func (c *ListColumn) Title() string         { return c.title }
func (c *ListColumn) SetTitle(title string) { c.title = title }

// ColumnType returns the column's content type
func (c *ListColumn) ColumnType() ColumnType { return c.columnType }

// ContextID returns the id of the entity this column was opened from
func (c *ListColumn) ContextID() string { return c.contextID }

// SelectedItem returns the item under the cursor, or nil
func (c *ListColumn) SelectedItem() domain.ListItem {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count {
		return nil
	}
	return c.items[c.mapIndex(c.cursor)]
}

// SelectedTrack returns the selected item when it is a track
func (c *ListColumn) SelectedTrack() *domain.Track {
	t, _ := c.SelectedItem().(*domain.Track)
	return t
}

// SelectedAlbum returns the selected item when it is an album
func (c *ListColumn) SelectedAlbum() *domain.Album {
	a, _ := c.SelectedItem().(*domain.Album)
	return a
}

// Tracks returns every track in the column in display order, ignoring the
// filter, and the position of the selected track within that slice.
func (c *ListColumn) Tracks() ([]*domain.Track, int) {
	selected := c.SelectedItem()
	var tracks []*domain.Track
	index := 0
	for _, item := range c.items {
		t, ok := item.(*domain.Track)
		if !ok {
			continue
		}
		if item == selected {
			index = len(tracks)
		}
		tracks = append(tracks, t)
	}
	return tracks, index
}

func (c *ListColumn) SelectedIndex() int {
	return c.cursor
}

func (c *ListColumn) SetSelectedIndex(idx int) {
	last := c.ItemCount() - 1
	if last < 0 {
		c.cursor = 0
		return
	}
	c.cursor = max(0, min(idx, last))
	c.ensureVisible()
}

// SelectByID moves the cursor to the item with the given id, if present
func (c *ListColumn) SelectByID(id string) bool {
	for i := 0; i < c.ItemCount(); i++ {
		if c.items[c.mapIndex(i)].GetID() == id {
			c.SetSelectedIndex(i)
			return true
		}
	}
	return false
}

func (c *ListColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.items)
}

func (c *ListColumn) CanDrillInto() bool {
	item := c.SelectedItem()
	return item != nil && item.CanDrillDown()
}

func (c *ListColumn) IsEmpty() bool {
	return c.ItemCount() == 0
}

func (c *ListColumn) SetLoading(loading bool) { c.loading = loading }
func (c *ListColumn) IsLoading() bool         { return c.loading }

// SetItems replaces the column content, keeping the cursor on the same id when possible
func (c *ListColumn) SetItems(items []domain.ListItem) {
	var keepID string
	if item := c.SelectedItem(); item != nil {
		keepID = item.GetID()
	}

	c.loading = false
	c.items = items
	c.cursor = 0
	c.offset = 0

	if c.filterActive && c.filterQuery != "" {
		c.applyFilter()
	} else {
		c.filteredIdx = nil
	}

	if keepID != "" {
		c.SelectByID(keepID)
	}
}

// Items returns the unfiltered items
func (c *ListColumn) Items() []domain.ListItem {
	return c.items
}

// SetSpinnerFrame updates the spinner animation frame
func (c *ListColumn) SetSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// SetNowPlaying marks the track loaded in the engine
func (c *ListColumn) SetNowPlaying(trackID string, playing bool) {
	c.nowPlayingID = trackID
	c.playing = playing
}

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *ListColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *ListColumn) ClearFilter() {
	c.clearFilter()
}

// Internal methods

func (c *ListColumn) recalcMaxVisible() {
	// Interior height minus title line and scroll indicators
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	// Size not known yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *ListColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *ListColumn) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(c.items))
	for i, item := range c.items {
		lowerTitles[i] = strings.ToLower(item.GetTitle())
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}

	c.cursor = 0
	c.offset = 0
}

func (c *ListColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *ListColumn) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if c.loading {
		spinner := styles.SpinnerFrames[c.spinnerFrame%len(styles.SpinnerFrames)]
		loadingLine := styles.DimStyle.Render(spinner + " Loading...")
		return titleLine + "\n" + " " + "\n" + loadingLine + "\n" + " "
	}

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No items")
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)

	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderItem(c.items[c.mapIndex(i)], i == c.cursor, itemWidth))
	}

	// Reserve header and footer lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer

	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}

	return content
}

func (c *ListColumn) renderItem(item domain.ListItem, selected bool, width int) string {
	switch v := item.(type) {
	case *domain.Track:
		return c.renderTrackItem(v, selected, width)
	case *domain.Album:
		return c.renderAlbumItem(v, selected, width)
	default:
		return c.renderDrillItem(item, selected, width)
	}
}

func (c *ListColumn) renderTrackItem(t *domain.Track, selected bool, width int) string {
	indicator := " "
	indicatorFg := styles.DimGray
	switch {
	case t.ID == c.nowPlayingID && c.playing:
		indicator = styles.PlayingChar
		indicatorFg = styles.Accent
	case t.ID == c.nowPlayingID:
		indicator = styles.PausedChar
		indicatorFg = styles.Accent
	case t.Liked:
		indicator = styles.LikedChar
		indicatorFg = styles.Accent
	}

	duration := t.FormattedDuration()
	if !t.IsFull() {
		duration = "preview " + duration
	}
	durationFg := styles.DimGray

	// Available space: indicator(1) + space(1) + space(1) + duration + margins(2)
	availableForTitle := width - 5 - lipgloss.Width(duration)
	if availableForTitle < 5 {
		availableForTitle = 5
	}
	title := styles.Pad(t.Title, availableForTitle)

	parts := []styles.RowPart{
		{Text: indicator, Foreground: &indicatorFg},
		{Text: " " + title + " "},
		{Text: duration, Foreground: &durationFg},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderAlbumItem(a *domain.Album, selected bool, width int) string {
	badge := styles.PurchasedChar
	badgeFg := styles.Green
	if !a.Purchased {
		badge = fmt.Sprintf("%s%.2f", styles.LockedChar, a.Price)
		badgeFg = styles.Amber
	}

	availableForTitle := width - 5 - lipgloss.Width(badge)
	if availableForTitle < 5 {
		availableForTitle = 5
	}
	title := styles.Pad(a.Title, availableForTitle)
	folderFg := styles.DimGray

	parts := []styles.RowPart{
		{Text: styles.FolderChar, Foreground: &folderFg},
		{Text: " " + title + " "},
		{Text: badge, Foreground: &badgeFg},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderDrillItem(item domain.ListItem, selected bool, width int) string {
	prefix := " "
	if item.CanDrillDown() {
		prefix = styles.FolderChar
	}
	prefixFg := styles.DimGray

	availableForTitle := width - 4
	if availableForTitle < 5 {
		availableForTitle = 5
	}

	parts := []styles.RowPart{
		{Text: prefix, Foreground: &prefixFg},
		{Text: " " + styles.Truncate(item.GetTitle(), availableForTitle)},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *ListColumn) renderFilterBar() string {
	input := c.filterInput.View()

	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.items)))
	}

	return input + countStr
}
