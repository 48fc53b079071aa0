package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmcdole/encore/internal/domain"
)

func TestPurchaseModalFlow(t *testing.T) {
	m := NewPurchaseModal()
	album := &domain.Album{ID: "al1", Title: "Record", ArtistName: "Band", Price: 9.99}

	if got := m.HandleKeyMsg(enterKey); got != PurchaseNone {
		t.Fatalf("hidden modal action = %v, want none", got)
	}

	m.Show(album, "The preview has ended.")
	if m.Album() != album {
		t.Fatal("Album() should return the album on offer")
	}
	if got := m.HandleKeyMsg(enterKey); got != PurchaseCheckout {
		t.Fatalf("enter action = %v, want checkout", got)
	}

	// A pending checkout ignores enter
	m.SetPending()
	if got := m.HandleKeyMsg(enterKey); got != PurchaseNone {
		t.Fatalf("pending enter action = %v, want none", got)
	}

	// Failure allows a retry
	m.SetError(errors.New("declined"))
	if got := m.HandleKeyMsg(enterKey); got != PurchaseCheckout {
		t.Fatalf("retry action = %v, want checkout", got)
	}
	if !strings.Contains(m.View(), "declined") {
		t.Error("view should show the failure")
	}

	m.SetCheckout(&domain.Checkout{AlbumID: "al1", SessionID: "cs_1", URL: "https://example.com/pay/cs_1"})
	if got := m.CheckoutURL(); got != "https://example.com/pay/cs_1" {
		t.Fatalf("CheckoutURL() = %q", got)
	}
	if !strings.Contains(m.View(), "https://example.com/pay/cs_1") {
		t.Error("view should show the checkout link")
	}

	if got := m.HandleKeyMsg(escKey); got != PurchaseClose {
		t.Fatalf("esc action = %v, want close", got)
	}
}

func TestRenderQR(t *testing.T) {
	if qr := renderQR("https://example.com/pay/cs_1"); qr == "" {
		t.Fatal("expected a QR code")
	}
}
