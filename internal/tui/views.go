package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/encore/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.overlay(m.renderHelp())
	case StateConfirmLogout:
		return m.overlay(renderConfirm("Log Out?",
			"This clears your credentials\nand all cached data."))
	case StateConfirmDelete:
		title := ""
		if m.pendingDelete != nil {
			title = m.pendingDelete.Title
		}
		return m.overlay(renderConfirm("Delete Playlist?",
			styles.Truncate(title, 40)+"\nwill be removed for good."))
	}

	// Modals replace the main view while open
	switch {
	case m.PurchaseModal.IsVisible():
		return m.overlay(m.PurchaseModal.View())
	case m.GlobalSearch.IsVisible():
		return m.GlobalSearch.View()
	case m.PlaylistModal.IsVisible():
		return m.overlay(m.PlaylistModal.View())
	case m.InputModal.IsVisible():
		return m.overlay(m.InputModal.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderColumns(),
		m.Transport.View(),
		m.renderFooter(),
	)
}

// renderColumns lays out [sidebar | parent | active]
func (m Model) renderColumns() string {
	layout := m.calculateColumnLayout(m.Width)

	var panes []string
	if layout.sidebarWidth > 0 {
		panes = append(panes, m.Sidebar.View())
	}
	if parent := m.ColumnStack.Parent(); parent != nil && layout.parentWidth > 0 {
		panes = append(panes, parent.View())
	}
	if top := m.ColumnStack.Top(); top != nil {
		panes = append(panes, top.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

// renderFooter renders a single-line footer
func (m Model) renderFooter() string {
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")
	avail := max(m.Width-lipgloss.Width(right)-1, 0)

	// Left side: status message, or where we are
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, avail))
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(styles.Truncate(m.StatusMsg, avail))
	default:
		left = styles.DimStyle.Render(styles.Truncate(m.breadcrumb(), avail))
	}

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) breadcrumb() string {
	cols := m.ColumnStack.Columns()
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		parts = append(parts, col.Title())
	}
	return strings.Join(parts, " › ")
}

// renderHelp lists the active bindings in two columns
func (m Model) renderHelp() string {
	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"NAVIGATION", []key.Binding{Keys.Up, Keys.Down, Keys.Back, Keys.Right, Keys.Enter, Keys.NextSection, Keys.PrevSection}},
		{"PLAYBACK", []key.Binding{Keys.TogglePlay, Keys.Next, Keys.Previous, Keys.SeekForward, Keys.SeekBack, Keys.Buy}},
		{"LIBRARY", []key.Binding{Keys.Filter, Keys.GlobalSearch, Keys.Refresh, Keys.Like, Keys.Follow}},
		{"PLAYLISTS", []key.Binding{Keys.PlaylistModal, Keys.NewPlaylist, Keys.Delete}},
		{"OTHER", []key.Binding{Keys.Escape, Keys.Logout, Keys.Help, Keys.Quit}},
	}

	var blocks []string
	for _, g := range groups {
		var b strings.Builder
		b.WriteString(styles.TitleStyle.Render(g.title))
		for _, binding := range g.bindings {
			h := binding.Help()
			b.WriteString("\n  ")
			b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(h.Key, 10)))
			b.WriteString(styles.HelpDescStyle.Render(h.Desc))
		}
		blocks = append(blocks, b.String())
	}

	left := lipgloss.JoinVertical(lipgloss.Left, blocks[0], "", blocks[1])
	right := lipgloss.JoinVertical(lipgloss.Left, blocks[2], "", blocks[3], "", blocks[4])
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(30).Render(left), right)

	return styles.ModalStyle.Render(body + "\n\n" + styles.DimStyle.Render("esc to return"))
}

func renderConfirm(title, body string) string {
	content := styles.ModalTitleStyle.Render(title) + "\n" +
		styles.SubtitleStyle.Render(body) + "\n\n" +
		styles.HelpKeyStyle.Render("[Y]") + styles.HelpDescStyle.Render(" Yes    ") +
		styles.HelpKeyStyle.Render("[N]") + styles.HelpDescStyle.Render(" No")
	return styles.ModalStyle.Render(content)
}

func (m Model) overlay(content string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
}
