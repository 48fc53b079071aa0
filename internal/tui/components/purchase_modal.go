package components

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skip2/go-qrcode"

	"github.com/mmcdole/encore/internal/domain"
	"github.com/mmcdole/encore/internal/tui/styles"
)

// PurchaseAction is what the app should do after a purchase modal key
type PurchaseAction int

const (
	PurchaseNone PurchaseAction = iota
	PurchaseCheckout
	PurchaseClose
)

type purchaseStage int

const (
	stageConfirm purchaseStage = iota
	stagePending
	stageReady
	stageFailed
)

// PurchaseModal offers an album for sale and shows the checkout link
type PurchaseModal struct {
	visible bool
	album   *domain.Album
	reason  string // Why the modal opened, e.g. preview ended
	stage   purchaseStage

	checkoutURL string
	qr          string
	notice      string
	errMsg      string

	spinnerFrame int
}

// NewPurchaseModal creates a hidden purchase modal
func NewPurchaseModal() PurchaseModal {
	return PurchaseModal{}
}

// Show opens the modal for album. reason is shown above the offer.
func (m *PurchaseModal) Show(album *domain.Album, reason string) {
	m.visible = true
	m.album = album
	m.reason = reason
	m.stage = stageConfirm
	m.checkoutURL = ""
	m.qr = ""
	m.notice = ""
	m.errMsg = ""
}

// Hide dismisses the modal
func (m *PurchaseModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m PurchaseModal) IsVisible() bool {
	return m.visible
}

// Album returns the album on offer
func (m PurchaseModal) Album() *domain.Album {
	return m.album
}

// SetSpinnerFrame updates the pending animation
func (m *PurchaseModal) SetSpinnerFrame(frame int) {
	m.spinnerFrame = frame
}

// SetPending marks the checkout request as in flight
func (m *PurchaseModal) SetPending() {
	m.stage = stagePending
	m.errMsg = ""
}

// SetCheckout shows the checkout link and its QR code
func (m *PurchaseModal) SetCheckout(checkout *domain.Checkout) {
	m.stage = stageReady
	m.checkoutURL = checkout.URL
	m.qr = renderQR(checkout.URL)
}

// SetError shows a failed checkout; enter retries
func (m *PurchaseModal) SetError(err error) {
	m.stage = stageFailed
	m.errMsg = err.Error()
}

// CheckoutURL returns the link once the checkout exists
func (m PurchaseModal) CheckoutURL() string {
	return m.checkoutURL
}

func renderQR(url string) string {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return ""
	}
	return q.ToSmallString(false)
}

// HandleKeyMsg processes a key while visible
func (m *PurchaseModal) HandleKeyMsg(msg tea.KeyMsg) PurchaseAction {
	if !m.visible {
		return PurchaseNone
	}

	switch {
	case key.Matches(msg, PurchaseModalKeys.Escape):
		return PurchaseClose
	case key.Matches(msg, PurchaseModalKeys.Buy):
		if m.stage == stageConfirm || m.stage == stageFailed {
			return PurchaseCheckout
		}
	case key.Matches(msg, PurchaseModalKeys.Copy):
		if m.checkoutURL == "" {
			return PurchaseNone
		}
		if err := clipboard.WriteAll(m.checkoutURL); err != nil {
			m.notice = "Clipboard unavailable"
		} else {
			m.notice = "Link copied"
		}
	}
	return PurchaseNone
}

// View renders the modal
func (m PurchaseModal) View() string {
	if !m.visible || m.album == nil {
		return ""
	}

	var lines []string
	lines = append(lines, styles.ModalTitleStyle.Render("Buy "+styles.Truncate(m.album.Title, 40)))

	if m.reason != "" {
		lines = append(lines, styles.SubtitleStyle.Render(m.reason), "")
	}
	if m.album.ArtistName != "" {
		lines = append(lines, styles.DimStyle.Render("by "+m.album.ArtistName))
	}
	lines = append(lines, styles.AccentStyle.Render(fmt.Sprintf("%s%.2f", styles.LockedChar, m.album.Price)), "")

	switch m.stage {
	case stageConfirm:
		lines = append(lines, styles.DimStyle.Render("enter checkout · esc close"))
	case stagePending:
		spinner := styles.SpinnerFrames[m.spinnerFrame%len(styles.SpinnerFrames)]
		lines = append(lines, styles.SpinnerStyle.Render(spinner+" Creating checkout..."))
	case stageFailed:
		lines = append(lines,
			styles.ErrorStyle.Render(m.errMsg),
			"",
			styles.DimStyle.Render("enter retry · esc close"))
	case stageReady:
		if m.qr != "" {
			lines = append(lines, strings.TrimRight(m.qr, "\n"), "")
		}
		lines = append(lines,
			styles.SubtitleStyle.Render("Complete the purchase in your browser:"),
			styles.AccentStyle.Render(m.checkoutURL),
			"")
		if m.notice != "" {
			lines = append(lines, styles.SuccessStyle.Render(m.notice))
		}
		lines = append(lines, styles.DimStyle.Render("c copy link · esc close"))
	}

	return styles.ModalStyle.Render(strings.Join(lines, "\n"))
}
