package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/encore/internal/domain"
)

func TestRenderChartsTable(t *testing.T) {
	tracks := []*domain.Track{
		{ID: "1", Title: "Anthem", Artist: domain.ArtistRef{Name: "Band"}, Duration: 3*time.Minute + 5*time.Second, Liked: true},
		{ID: "2", Title: "Teaser", Artist: domain.ArtistRef{Name: "Other"}, Duration: 30 * time.Second, Type: domain.TrackTypePreview},
	}

	var buf bytes.Buffer
	renderChartsTable(&buf, tracks)
	out := buf.String()

	for _, want := range []string{"Anthem ♥", "Band", "3:05", "Teaser", "preview", "2 tracks"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
