package player

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		locator     string
		contentType string
		want        audioFormat
		wantErr     error
	}{
		{"mp3 extension", "https://cdn.example.com/songs/a.mp3", "", formatMP3, nil},
		{"wav extension with query", "https://cdn.example.com/a.WAV?sig=abc", "", formatWAV, nil},
		{"flac unsupported", "https://cdn.example.com/a.flac", "", 0, ErrUnsupportedFormat},
		{"wav by content type", "https://cdn.example.com/stream/12", "audio/x-wav", formatWAV, nil},
		{"ogg by content type", "https://cdn.example.com/stream/12", "audio/ogg; codecs=vorbis", 0, ErrUnsupportedFormat},
		{"unknown defaults to mp3", "https://cdn.example.com/stream/12", "application/octet-stream", formatMP3, nil},
		{"local path", "/tmp/music/b.wav", "", formatWAV, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detectFormat(tt.locator, tt.contentType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("format = %v, want %v", got, tt.want)
			}
		})
	}
}

// writeSilence encodes n samples of silence as a WAV file and returns its bytes
func writeSilence(t *testing.T, n int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, generators.Silence(n), format); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestDownloadAndDecodeWAV(t *testing.T) {
	const samples = 44100
	data := writeSilence(t, samples)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/songs/silence.wav" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(data)
	}))
	defer server.Close()

	f := NewBeepFetcher(BeepConfig{}, nil)

	got, contentType, err := f.download(context.Background(), server.URL+"/songs/silence.wav")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if contentType != "audio/wav" {
		t.Errorf("content type = %q, want audio/wav", contentType)
	}

	stream, format, err := decode(got, formatWAV)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	defer stream.Close()

	if stream.Len() != samples {
		t.Errorf("Len() = %d, want %d", stream.Len(), samples)
	}
	if format.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", format.SampleRate)
	}

	if _, _, err := f.download(context.Background(), server.URL+"/missing.mp3"); err == nil {
		t.Error("expected error for 404 media")
	}
}

func TestDownloadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewBeepFetcher(BeepConfig{}, nil)
	for _, locator := range []string{path, "file://" + path} {
		data, _, err := f.download(context.Background(), locator)
		if err != nil {
			t.Fatalf("download(%q): %v", locator, err)
		}
		if string(data) != "ID3" {
			t.Errorf("download(%q) = %q", locator, data)
		}
	}
}

func TestOpenRejectsEmptyLocator(t *testing.T) {
	f := NewBeepFetcher(BeepConfig{}, nil)
	if _, err := f.Open(context.Background(), "", Events{}); !errors.Is(err, ErrNoTrack) {
		t.Errorf("err = %v, want ErrNoTrack", err)
	}
}
