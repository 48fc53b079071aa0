package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

const (
	defaultSampleRate   = 44100
	defaultTickInterval = 500 * time.Millisecond
)

type audioFormat int

const (
	formatMP3 audioFormat = iota
	formatWAV
)

// BeepConfig tunes the beep-backed fetcher
type BeepConfig struct {
	SampleRate   int           // Speaker output rate; sources are resampled to it
	TickInterval time.Duration // Position callback period
	HTTPClient   *http.Client
}

// BeepFetcher downloads a media locator into memory, decodes it and plays it
// on the shared beep speaker
type BeepFetcher struct {
	client       *http.Client
	sampleRate   beep.SampleRate
	tickInterval time.Duration
	logger       *slog.Logger
}

// NewBeepFetcher creates a fetcher; zero config values fall back to defaults
func NewBeepFetcher(cfg BeepConfig, logger *slog.Logger) *BeepFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = defaultSampleRate
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &BeepFetcher{
		client:       cfg.HTTPClient,
		sampleRate:   beep.SampleRate(cfg.SampleRate),
		tickInterval: cfg.TickInterval,
		logger:       logger,
	}
}

// Open implements Fetcher
func (f *BeepFetcher) Open(ctx context.Context, locator string, events Events) (Handle, error) {
	if locator == "" {
		return nil, ErrNoTrack
	}

	data, contentType, err := f.download(ctx, locator)
	if err != nil {
		return nil, err
	}

	format, err := detectFormat(locator, contentType)
	if err != nil {
		return nil, err
	}

	stream, streamFormat, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", locator, err)
	}

	if err := ctx.Err(); err != nil {
		_ = stream.Close()
		return nil, err
	}

	f.logger.Debug("decoded media",
		"locator", locator,
		"bytes", len(data),
		"sample_rate", int(streamFormat.SampleRate),
		"duration", streamFormat.SampleRate.D(stream.Len()))

	return f.output(stream, streamFormat, events)
}

func (f *BeepFetcher) download(ctx context.Context, locator string) ([]byte, string, error) {
	if !strings.HasPrefix(locator, "http://") && !strings.HasPrefix(locator, "https://") {
		data, err := os.ReadFile(strings.TrimPrefix(locator, "file://"))
		if err != nil {
			return nil, "", fmt.Errorf("read media: %w", err)
		}
		return data, "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create media request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch media: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read media body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// detectFormat picks a decoder from the locator extension, then the content type.
// Unknown types are treated as mp3, which is what the catalog serves.
func detectFormat(locator, contentType string) (audioFormat, error) {
	p := locator
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".mp3":
		return formatMP3, nil
	case ".wav", ".wave":
		return formatWAV, nil
	case ".flac", ".ogg", ".oga", ".opus", ".m4a", ".aac":
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path.Ext(p))
	}

	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			switch mediaType {
			case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
				return formatWAV, nil
			case "audio/flac", "audio/ogg", "audio/mp4", "audio/aac":
				return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
			}
		}
	}
	return formatMP3, nil
}

func decode(data []byte, format audioFormat) (beep.StreamSeekCloser, beep.Format, error) {
	r := bytes.NewReader(data)
	switch format {
	case formatWAV:
		return wav.Decode(r)
	default:
		return mp3.Decode(io.NopCloser(r))
	}
}
