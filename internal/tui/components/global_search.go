package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/search"
	"github.com/mmcdole/encore/internal/tui/styles"
)

const globalSearchMaxResults = 10

// GlobalSearch is the fuzzy search modal over the cached catalog
type GlobalSearch struct {
	input     textinput.Model
	results   []search.FilterResult
	cursor    int
	offset    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewGlobalSearch creates a new global search component
func NewGlobalSearch() GlobalSearch {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return GlobalSearch{
		input: ti,
	}
}

// Show makes the global search visible and focuses the input
func (o *GlobalSearch) Show() {
	o.visible = true
	o.input.Focus()
	o.input.SetValue("")
	o.results = nil
	o.cursor = 0
	o.offset = 0
	o.prevQuery = ""
}

// Hide hides the global search
func (o *GlobalSearch) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns true if the global search is visible
func (o GlobalSearch) IsVisible() bool {
	return o.visible
}

// SetResults sets the search results with match highlighting data
func (o *GlobalSearch) SetResults(results []search.FilterResult) {
	o.results = results
	o.cursor = 0
	o.offset = 0
}

// SetSize updates the component dimensions
func (o *GlobalSearch) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = max(width/2, 20)
}

// Query returns the current search query
func (o GlobalSearch) Query() string {
	return o.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (o *GlobalSearch) QueryChanged() bool {
	current := o.input.Value()
	if current != o.prevQuery {
		o.prevQuery = current
		return true
	}
	return false
}

// Selected returns the selected result's item
func (o GlobalSearch) Selected() domain.ListItem {
	if len(o.results) == 0 || o.cursor >= len(o.results) {
		return nil
	}
	return o.results[o.cursor].Item
}

// ResultCount returns the number of results
func (o GlobalSearch) ResultCount() int {
	return len(o.results)
}

// Init initializes the component
func (o GlobalSearch) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages, returns (search, cmd, selected)
func (o GlobalSearch) Update(msg tea.Msg) (GlobalSearch, tea.Cmd, bool) {
	if !o.visible {
		return o, nil, false
	}

	var cmd tea.Cmd
	resultCount := o.ResultCount()

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, GlobalSearchKeys.Escape):
			o.Hide()
			return o, nil, false

		case key.Matches(keyMsg, GlobalSearchKeys.Enter):
			return o, nil, resultCount > 0

		case key.Matches(keyMsg, GlobalSearchKeys.Down):
			if o.cursor < resultCount-1 {
				o.cursor++
				if o.cursor >= o.offset+globalSearchMaxResults {
					o.offset++
				}
			}
			return o, nil, false

		case key.Matches(keyMsg, GlobalSearchKeys.Up):
			if o.cursor > 0 {
				o.cursor--
				if o.cursor < o.offset {
					o.offset = o.cursor
				}
			}
			return o, nil, false
		}
	}

	o.input, cmd = o.input.Update(msg)
	return o, cmd, false
}

// View renders the component centered in its area
func (o GlobalSearch) View() string {
	if !o.visible {
		return ""
	}

	modalWidth := max(40, min(o.width*2/3, 80))

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")
	o.renderResults(&b, modalWidth)

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, modal)
}

func typeBadge(itemType string) string {
	switch itemType {
	case "album":
		return "ALB"
	case "artist":
		return "ART"
	case "track":
		return "TRK"
	case "playlist":
		return "PL "
	}
	return "   "
}

func (o GlobalSearch) renderResults(b *strings.Builder, modalWidth int) {
	if len(o.results) == 0 {
		if strings.TrimSpace(o.input.Value()) != "" {
			b.WriteString(styles.DimStyle.Render("No matches in cached catalog"))
		}
		return
	}

	end := min(o.offset+globalSearchMaxResults, len(o.results))
	maxTitleWidth := modalWidth - 30

	for i := o.offset; i < end; i++ {
		result := o.results[i]
		selected := i == o.cursor

		b.WriteString(styles.DimBadgeStyle.Render(typeBadge(result.Type)))
		b.WriteString(" ")

		title := styles.Truncate(result.Title, maxTitleWidth)
		b.WriteString(styles.HighlightMatches(title, result.MatchedIndexes, selected))

		if desc := result.Item.GetDescription(); desc != "" {
			b.WriteString(styles.DimStyle.Render("  " + styles.Truncate(desc, 20)))
		}
		b.WriteString("\n")
	}

	if hidden := len(o.results) - end; hidden > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", hidden)))
	}
}
