package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/player"
	"github.com/mmcdole/encore/internal/tui/styles"
)

// TransportHeight is the rendered height of the transport bar, border included
const TransportHeight = 3

// Transport renders the now-playing bar from engine snapshots
type Transport struct {
	progress     progress.Model
	status       player.Status
	seen         bool
	width        int
	spinnerFrame int
}

// NewTransport creates an empty transport bar
func NewTransport() Transport {
	p := progress.New(
		progress.WithSolidFill(string(styles.Accent)),
		progress.WithoutPercentage(),
	)
	p.EmptyColor = string(styles.SlateLight)
	return Transport{progress: p}
}

// SetStatus applies an engine snapshot. Snapshots older than the last one
// applied are dropped and SetStatus reports false.
func (t *Transport) SetStatus(s player.Status) bool {
	if t.seen && s.Seq < t.status.Seq {
		return false
	}
	t.status = s
	t.seen = true
	return true
}

// Status returns the last applied snapshot
func (t Transport) Status() player.Status {
	return t.status
}

// SetWidth updates the bar width
func (t *Transport) SetWidth(width int) {
	t.width = width
}

// SetSpinnerFrame updates the loading animation frame
func (t *Transport) SetSpinnerFrame(frame int) {
	t.spinnerFrame = frame
}

// Ratio returns how much of the reachable range has been played
func (t Transport) Ratio() float64 {
	s := t.status
	if s.AllowedMax <= 0 {
		return 0
	}
	r := float64(s.Position) / float64(s.AllowedMax)
	return max(0, min(r, 1))
}

func (t Transport) stateIcon() string {
	switch t.status.State {
	case player.StateLoading:
		return styles.SpinnerStyle.Render(styles.SpinnerFrames[t.spinnerFrame%len(styles.SpinnerFrames)])
	case player.StatePlaying:
		return styles.AccentStyle.Render(styles.PlayingChar)
	case player.StateBlocked:
		return styles.ErrorStyle.Render(styles.LockedChar)
	default:
		return styles.DimStyle.Render(styles.PausedChar)
	}
}

// View renders the transport bar
func (t Transport) View() string {
	// Content width inside the horizontal padding
	inner := max(t.width-2, 20)
	s := t.status

	if !s.HasTrack {
		line := styles.DimStyle.Render("Nothing playing")
		return styles.TransportStyle.Width(inner + 2).Render(line + "\n")
	}

	// Line 1: icon, title, artist, badges, queue position
	var badges []string
	if !s.Entitled {
		badges = append(badges, styles.PreviewBadgeStyle.Render("PREVIEW"))
	}
	if s.QueueLen > 1 {
		badges = append(badges, styles.DimStyle.Render(fmt.Sprintf("%d/%d", s.Index+1, s.QueueLen)))
	}
	right := strings.Join(badges, " ")

	title := styles.TitleStyle.Render(s.Track.Title)
	if s.Track.Artist.Name != "" {
		title += styles.SubtitleStyle.Render(" · " + s.Track.Artist.Name)
	}
	left := t.stateIcon() + " " + title
	if avail := inner - lipgloss.Width(right) - 1; lipgloss.Width(left) > avail {
		left = t.stateIcon() + " " + styles.TitleStyle.Render(styles.Truncate(s.Track.Title, max(avail-2, 5)))
	}
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	top := left + strings.Repeat(" ", gap) + right

	// Line 2: position, bar, reachable end
	clock := domain.FormatClock(s.Position)
	end := domain.FormatClock(s.AllowedMax)
	if s.AllowedMax <= 0 {
		end = domain.FormatClock(s.Duration)
	}

	var tail string
	switch {
	case s.Err != nil:
		tail = styles.ErrorStyle.Render(" " + styles.Truncate(s.Err.Error(), 32))
	case s.PromptVisible:
		tail = styles.ErrorStyle.Render(" preview ended")
	}

	p := t.progress
	p.Width = max(inner-lipgloss.Width(clock)-lipgloss.Width(end)-lipgloss.Width(tail)-2, 5)
	bottom := styles.DimStyle.Render(clock) + " " + p.ViewAs(t.Ratio()) + " " + styles.DimStyle.Render(end) + tail

	return styles.TransportStyle.Width(inner + 2).Render(top + "\n" + bottom)
}
