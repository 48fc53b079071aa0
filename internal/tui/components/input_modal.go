package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/encore/internal/tui/styles"
)

// InputModal is a simple text input modal
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model
	errMsg  string
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.Placeholder = "Playlist name..."
	ti.CharLimit = 60
	ti.Width = 30
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input: ti,
	}
}

// Show displays the modal with a title
func (m *InputModal) Show(title string) {
	m.visible = true
	m.title = title
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the trimmed input value
func (m InputModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Update handles input events, returns (modal, cmd, submitted).
// Submitting a blank value keeps the modal open.
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.Value() == "" {
				m.errMsg = "Name cannot be empty"
				return m, nil, false
			}
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	m.errMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 36

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.White).
		Bold(true).
		Width(modalWidth).
		Background(styles.SlateDark)

	lineStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Background(styles.SlateDark)

	footer := styles.DimStyle.Render("enter create · esc cancel")
	if m.errMsg != "" {
		footer = styles.ErrorStyle.Render(m.errMsg)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		lineStyle.Render(""),
		lineStyle.Render(m.input.View()),
		lineStyle.Render(""),
		lineStyle.Render(footer),
	)

	return styles.ModalStyle.Render(content)
}
