package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/encore/internal/player"
)

// ChannelObserver adapts engine status callbacks to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan player.Status
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(size int) *ChannelObserver {
	return &ChannelObserver{ch: make(chan player.Status, max(size, 1))}
}

// OnStatus queues a snapshot. When the buffer is full the oldest snapshot is
// dropped; the UI only ever needs the newest one.
func (o *ChannelObserver) OnStatus(s player.Status) {
	for {
		select {
		case o.ch <- s:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// Wait returns a command that delivers the next snapshot as a PlayerStatusMsg
func (o *ChannelObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		return PlayerStatusMsg{Status: <-o.ch}
	}
}
