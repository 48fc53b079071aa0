package mysound

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mmcdole/encore/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond

	checkoutReturnBase = "https://mysoundsglobal.com"
)

// Client implements the catalog repositories against the streaming backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewClient creates an API client that authenticates every request with token
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{Timeout: defaultTimeout}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		retryDelay: baseRetryDelay,
	}
}

// BaseURL returns the server root used for API calls and asset resolution
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestBody struct {
	contentType string
	data        []byte
}

func jsonBody(v any) (*requestBody, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return &requestBody{contentType: "application/json", data: data}, nil
}

// doRequest performs an authenticated HTTP request.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body *requestBody) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "path", path)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body.data)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", body.contentType)
		}

		c.logger.Debug("api request", "method", method, "path", path, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("api request failed", "path", path, "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, domain.ErrAuthFailed
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s: %w", path, domain.ErrItemNotFound)
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			c.logger.Warn("api server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"method", method,
				"path", path)
			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			msg := serverMessage(respBody)
			c.logger.Error("api request error", "status", resp.StatusCode, "path", path, "message", msg)
			if msg != "" {
				return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, msg)
			}
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return respBody, nil
	}

	c.logger.Error("api request failed after retries", "error", lastErr, "method", method, "path", path)
	return nil, lastErr
}

func serverMessage(body []byte) string {
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}

// getData fetches path and decodes the envelope's data field into T
func getData[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return zero, err
	}
	return decodeData[T](body)
}

// postData sends in as JSON and decodes the envelope's data field into T
func postData[T any](ctx context.Context, c *Client, path string, in any) (T, error) {
	var zero T
	req, err := jsonBody(in)
	if err != nil {
		return zero, err
	}
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		return zero, err
	}
	return decodeData[T](body)
}

func decodeData[T any](body []byte) (T, error) {
	var env envelope[T]
	if len(bytes.TrimSpace(body)) == 0 {
		return env.Data, nil
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env.Data, fmt.Errorf("failed to parse response: %w", err)
	}
	return env.Data, nil
}

// ============================================================================
// Albums
// ============================================================================

var albumSectionPaths = map[domain.AlbumSection]string{
	domain.AlbumSectionAll:      "/api/albums",
	domain.AlbumSectionNew:      "/api/albums/new-albums",
	domain.AlbumSectionTop:      "/api/albums/top",
	domain.AlbumSectionTrending: "/api/albums/trending",
}

// GetAlbums returns one of the album listings
func (c *Client) GetAlbums(ctx context.Context, section domain.AlbumSection) ([]*domain.Album, error) {
	path, ok := albumSectionPaths[section]
	if !ok {
		return nil, fmt.Errorf("unknown album section: %s", section)
	}
	dtos, err := getData[[]AlbumDTO](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	return MapAlbums(dtos, c.baseURL), nil
}

// GetAlbum returns album metadata including the purchase flag
func (c *Client) GetAlbum(ctx context.Context, albumID string) (*domain.Album, error) {
	dto, err := getData[AlbumDTO](ctx, c, "/api/albums/"+url.PathEscape(albumID), nil)
	if err != nil {
		return nil, err
	}
	return MapAlbum(dto, c.baseURL), nil
}

// GetAlbumTracks returns the album with its songs and the listener's entitlement
func (c *Client) GetAlbumTracks(ctx context.Context, albumID string) (*domain.AlbumTracks, error) {
	dto, err := getData[AlbumSongsDTO](ctx, c, "/api/album/songs/"+url.PathEscape(albumID), nil)
	if err != nil {
		return nil, err
	}

	result := MapAlbumSongs(dto, c.baseURL)
	if result.Album.ID == "" {
		result.Album.ID = albumID
		for _, t := range result.Tracks {
			if t.AlbumID == "" {
				t.AlbumID = albumID
			}
		}
	}

	// Some deployments only report ownership on the album endpoint
	if dto.IsPurchased == nil {
		album, err := c.GetAlbum(ctx, albumID)
		if err != nil {
			return nil, fmt.Errorf("failed to get purchase status: %w", err)
		}
		result.Purchased = album.Purchased
		result.Album.Purchased = album.Purchased
		if result.Album.Title == "" {
			tracks := result.Album.TrackCount
			result.Album = *album
			result.Album.TrackCount = max(album.TrackCount, tracks)
		}
	}

	return result, nil
}

// GetArtistAlbums returns all albums released by an artist
func (c *Client) GetArtistAlbums(ctx context.Context, artistID string) ([]*domain.Album, error) {
	dtos, err := getData[[]AlbumDTO](ctx, c, "/api/artist/"+url.PathEscape(artistID)+"/albums", nil)
	if err != nil {
		return nil, err
	}
	return MapAlbums(dtos, c.baseURL), nil
}

// CreateCheckout starts a hosted checkout session for an album
func (c *Client) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error) {
	session, err := postData[CheckoutSessionDTO](ctx, c, "/api/create-checkout-session", CheckoutSessionRequest{
		Amount:        req.Amount,
		ArtistID:      req.ArtistID,
		Type:          "album",
		TransactionID: req.TransactionID,
		AlbumID:       req.AlbumID,
		Email:         req.Email,
		SuccessURL:    checkoutReturnBase + "/payment/success",
		CancelURL:     checkoutReturnBase + "/payment/cancel",
	})
	if err != nil {
		return nil, err
	}
	if session.SessionID == "" {
		return nil, errors.New("failed to create checkout session")
	}

	return &domain.Checkout{
		AlbumID:   req.AlbumID,
		SessionID: session.SessionID,
		URL:       CheckoutURL(session.SessionID),
	}, nil
}

// ============================================================================
// Artists
// ============================================================================

// GetArtists returns every artist
func (c *Client) GetArtists(ctx context.Context) ([]*domain.Artist, error) {
	dtos, err := getData[[]ArtistDTO](ctx, c, "/api/artists", nil)
	if err != nil {
		return nil, err
	}
	return MapArtists(dtos, c.baseURL), nil
}

// GetTrendingArtists returns the trending artists shown on the dashboard
func (c *Client) GetTrendingArtists(ctx context.Context) ([]*domain.Artist, error) {
	dtos, err := getData[[]ArtistDTO](ctx, c, "/api/artists/trending-artists", nil)
	if err != nil {
		return nil, err
	}
	return MapArtists(dtos, c.baseURL), nil
}

// GetArtistTracks returns the songs of an artist
func (c *Client) GetArtistTracks(ctx context.Context, artistID string) ([]*domain.Track, error) {
	dtos, err := getData[[]SongDTO](ctx, c, "/api/songs/artist/"+url.PathEscape(artistID), nil)
	if err != nil {
		return nil, err
	}
	return MapSongs(dtos, c.baseURL), nil
}

// FollowArtist follows an artist
func (c *Client) FollowArtist(ctx context.Context, artistID string) error {
	_, err := postData[json.RawMessage](ctx, c, "/api/follow/artist", map[string]string{"artist_id": artistID})
	return err
}

// UnfollowArtist unfollows an artist
func (c *Client) UnfollowArtist(ctx context.Context, artistID string) error {
	_, err := postData[json.RawMessage](ctx, c, "/api/artist/unfollow", map[string]string{"artist_id": artistID})
	return err
}

// IsFollowing reports whether the listener follows an artist
func (c *Client) IsFollowing(ctx context.Context, artistID string) (bool, error) {
	status, err := getData[FollowStatusDTO](ctx, c, "/api/artist/"+url.PathEscape(artistID)+"/following", nil)
	if err != nil {
		return false, err
	}
	return status.IsFollowing, nil
}

// ============================================================================
// Songs
// ============================================================================

// GetCharts returns the top chart songs
func (c *Client) GetCharts(ctx context.Context) ([]*domain.Track, error) {
	dtos, err := getData[[]SongDTO](ctx, c, "/api/charts", nil)
	if err != nil {
		return nil, err
	}
	return MapSongs(dtos, c.baseURL), nil
}

// GetRecentlyPlayed returns the listener's most recent plays
func (c *Client) GetRecentlyPlayed(ctx context.Context, limit int) ([]*domain.Track, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	dtos, err := getData[[]SongDTO](ctx, c, "/api/songs/recently-played", query)
	if err != nil {
		return nil, err
	}
	return MapSongs(dtos, c.baseURL), nil
}

// GetLikedTracks returns the listener's liked songs
func (c *Client) GetLikedTracks(ctx context.Context) ([]*domain.Track, error) {
	dtos, err := getData[[]SongDTO](ctx, c, "/api/liked/songs", nil)
	if err != nil {
		return nil, err
	}
	tracks := MapSongs(dtos, c.baseURL)
	for _, t := range tracks {
		t.Liked = true
	}
	return tracks, nil
}

// LikeTrack toggles the like on a song
func (c *Client) LikeTrack(ctx context.Context, trackID string) error {
	_, err := postData[json.RawMessage](ctx, c, "/api/like/song", map[string]string{"song_id": trackID})
	return err
}

// RecordPlay increments the server-side play counter
func (c *Client) RecordPlay(ctx context.Context, trackID string) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/api/songs/"+url.PathEscape(trackID)+"/play", nil, nil)
	return err
}

// ============================================================================
// Playlists
// ============================================================================

var playlistKindPaths = map[domain.PlaylistKind]string{
	domain.PlaylistKindPersonal:  "/api/personal/playlists",
	domain.PlaylistKindCommunity: "/api/community-playlists",
	domain.PlaylistKindPopular:   "/api/playlists/popular",
}

// GetPlaylists returns playlists of the given kind
func (c *Client) GetPlaylists(ctx context.Context, kind domain.PlaylistKind) ([]*domain.Playlist, error) {
	path, ok := playlistKindPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown playlist kind: %s", kind)
	}
	dtos, err := getData[[]PlaylistDTO](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	return MapPlaylists(dtos, kind, c.baseURL), nil
}

// GetPlaylistTracks returns the songs of a playlist
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistID string) ([]*domain.Track, error) {
	dto, err := getData[PlaylistDTO](ctx, c, "/api/playlist/"+url.PathEscape(playlistID), nil)
	if err != nil {
		return nil, err
	}
	return MapSongs(dto.Songs, c.baseURL), nil
}

// CreatePlaylist creates a personal playlist. The endpoint takes a multipart form.
func (c *Client) CreatePlaylist(ctx context.Context, title, description string) (*domain.Playlist, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("name", title); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := form.WriteField("description", description); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/playlist/create", nil, &requestBody{
		contentType: form.FormDataContentType(),
		data:        buf.Bytes(),
	})
	if err != nil {
		return nil, err
	}

	dto, err := decodeData[PlaylistDTO](body)
	if err != nil {
		return nil, err
	}
	playlist := MapPlaylist(dto, domain.PlaylistKindPersonal, c.baseURL)
	if playlist.Title == "" {
		playlist.Title = title
		playlist.Description = description
	}
	return playlist, nil
}

// AddToPlaylist adds songs to a playlist
func (c *Client) AddToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	_, err := postData[json.RawMessage](ctx, c, "/api/playlist/add-song", map[string]any{
		"playlist_id": playlistID,
		"song_ids":    trackIDs,
	})
	return err
}

// DeletePlaylist deletes a playlist
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/api/playlist/delete/"+url.PathEscape(playlistID), nil, nil)
	return err
}
