package tui

import "github.com/mmcdole/encore/internal/tui/components"

// Layout proportions for Miller Columns
const (
	SidebarWidth        = 24
	ParentColumnPercent = 40 // Parent context when drilled in

	MinColumnWidth = 20

	// Vertical chrome: transport bar plus a single footer line
	ChromeHeight = components.TransportHeight + 1
)

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	sidebarWidth int
	parentWidth  int // 0 if not shown
	activeWidth  int
}

// calculateColumnLayout computes column widths based on stack depth
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	layout := columnLayout{sidebarWidth: SidebarWidth}

	// Narrow terminals drop the sidebar first
	if availableWidth < SidebarWidth+2*MinColumnWidth {
		layout.sidebarWidth = 0
	}
	remaining := availableWidth - layout.sidebarWidth

	if m.ColumnStack.Len() < 2 || remaining < 2*MinColumnWidth {
		layout.activeWidth = remaining
		return layout
	}

	layout.parentWidth = max(remaining*ParentColumnPercent/100, MinColumnWidth)
	layout.activeWidth = remaining - layout.parentWidth
	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := max(m.Height-ChromeHeight, 3)
	m.GlobalSearch.SetSize(m.Width, m.Height)
	m.PlaylistModal.SetSize(m.Width, m.Height)
	m.Transport.SetWidth(m.Width)

	layout := m.calculateColumnLayout(m.Width)
	m.Sidebar.SetSize(layout.sidebarWidth, contentHeight)

	if top := m.ColumnStack.Top(); top != nil {
		top.SetSize(layout.activeWidth, contentHeight)
	}
	if parent := m.ColumnStack.Parent(); parent != nil && layout.parentWidth > 0 {
		parent.SetSize(layout.parentWidth, contentHeight)
	}
}
