package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/encore/internal/domain"
)

// Bucket names
var (
	bucketAlbums    = []byte("albums")
	bucketArtists   = []byte("artists")
	bucketTracks    = []byte("tracks")
	bucketPlaylists = []byte("playlists")

	allBuckets = [][]byte{bucketAlbums, bucketArtists, bucketTracks, bucketPlaylists}
)

// entry is the stored form of every cached value
type entry struct {
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

// LibraryStore implements domain.Store using BoltDB with an in-memory
// read-through cache. Keys encode ancestry (album:{id}:tracks) so a
// prefix delete drops everything under an entity.
type LibraryStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	cache map[string]entry
}

// NewLibraryStore opens the cache for serverURL under baseCacheDir.
// An empty baseCacheDir keeps everything in memory.
func NewLibraryStore(baseCacheDir, serverURL string) (*LibraryStore, error) {
	if baseCacheDir == "" {
		return &LibraryStore{cache: make(map[string]entry)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "library.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LibraryStore{db: db, cache: make(map[string]entry)}, nil
}

// hashServerURL keeps caches for different backends apart
func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *LibraryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *LibraryStore) load(bucket []byte, key string) (entry, bool) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	e, ok := s.cache[cacheKey]
	s.mu.RUnlock()
	if ok {
		return e, true
	}

	if s.db == nil {
		return entry{}, false
	}

	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return entry{}, false
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = e
	s.mu.Unlock()

	return e, true
}

func (s *LibraryStore) get(bucket []byte, key string, dest any) bool {
	e, ok := s.load(bucket, key)
	if !ok {
		return false
	}
	return json.Unmarshal(e.Data, dest) == nil
}

func (s *LibraryStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := entry{SavedAt: time.Now(), Data: data}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = e
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), raw)
	})
}

func (s *LibraryStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	_ = s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

func (s *LibraryStore) deletePrefix(bucket []byte, prefix string) {
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	_ = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		// Collect first; deleting under a live cursor skips keys
		var keys [][]byte
		c := b.Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Albums ===

func (s *LibraryStore) GetAlbums(section domain.AlbumSection) ([]*domain.Album, bool) {
	var albums []*domain.Album
	ok := s.get(bucketAlbums, "section:"+string(section), &albums)
	return albums, ok
}

func (s *LibraryStore) SaveAlbums(section domain.AlbumSection, albums []*domain.Album) error {
	return s.set(bucketAlbums, "section:"+string(section), albums)
}

func (s *LibraryStore) GetAlbumTracks(albumID string) (*domain.AlbumTracks, bool) {
	var album domain.AlbumTracks
	if !s.get(bucketAlbums, "album:"+albumID+":tracks", &album) {
		return nil, false
	}
	return &album, true
}

func (s *LibraryStore) SaveAlbumTracks(albumID string, album *domain.AlbumTracks) error {
	return s.set(bucketAlbums, "album:"+albumID+":tracks", album)
}

// === Artists ===

func (s *LibraryStore) GetArtists() ([]*domain.Artist, bool) {
	var artists []*domain.Artist
	ok := s.get(bucketArtists, "list", &artists)
	return artists, ok
}

func (s *LibraryStore) SaveArtists(artists []*domain.Artist) error {
	return s.set(bucketArtists, "list", artists)
}

func (s *LibraryStore) GetArtistTracks(artistID string) ([]*domain.Track, bool) {
	var tracks []*domain.Track
	ok := s.get(bucketArtists, "artist:"+artistID+":tracks", &tracks)
	return tracks, ok
}

func (s *LibraryStore) SaveArtistTracks(artistID string, tracks []*domain.Track) error {
	return s.set(bucketArtists, "artist:"+artistID+":tracks", tracks)
}

func (s *LibraryStore) GetArtistAlbums(artistID string) ([]*domain.Album, bool) {
	var albums []*domain.Album
	ok := s.get(bucketArtists, "artist:"+artistID+":albums", &albums)
	return albums, ok
}

func (s *LibraryStore) SaveArtistAlbums(artistID string, albums []*domain.Album) error {
	return s.set(bucketArtists, "artist:"+artistID+":albums", albums)
}

// === Tracks ===

func (s *LibraryStore) GetCharts() ([]*domain.Track, bool) {
	var tracks []*domain.Track
	ok := s.get(bucketTracks, "charts", &tracks)
	return tracks, ok
}

func (s *LibraryStore) SaveCharts(tracks []*domain.Track) error {
	return s.set(bucketTracks, "charts", tracks)
}

func (s *LibraryStore) GetLikedTracks() ([]*domain.Track, bool) {
	var tracks []*domain.Track
	ok := s.get(bucketTracks, "liked", &tracks)
	return tracks, ok
}

func (s *LibraryStore) SaveLikedTracks(tracks []*domain.Track) error {
	return s.set(bucketTracks, "liked", tracks)
}

func (s *LibraryStore) InvalidateLikedTracks() {
	s.delete(bucketTracks, "liked")
}

// === Playlists ===

func (s *LibraryStore) GetPlaylists(kind domain.PlaylistKind) ([]*domain.Playlist, bool) {
	var playlists []*domain.Playlist
	ok := s.get(bucketPlaylists, "kind:"+string(kind), &playlists)
	return playlists, ok
}

func (s *LibraryStore) SavePlaylists(kind domain.PlaylistKind, playlists []*domain.Playlist) error {
	return s.set(bucketPlaylists, "kind:"+string(kind), playlists)
}

// PlaylistsSavedAt returns when a playlist listing was last written
func (s *LibraryStore) PlaylistsSavedAt(kind domain.PlaylistKind) (time.Time, bool) {
	e, ok := s.load(bucketPlaylists, "kind:"+string(kind))
	return e.SavedAt, ok
}

func (s *LibraryStore) GetPlaylistTracks(playlistID string) ([]*domain.Track, bool) {
	var tracks []*domain.Track
	ok := s.get(bucketPlaylists, "playlist:"+playlistID+":tracks", &tracks)
	return tracks, ok
}

func (s *LibraryStore) SavePlaylistTracks(playlistID string, tracks []*domain.Track) error {
	return s.set(bucketPlaylists, "playlist:"+playlistID+":tracks", tracks)
}

// === Invalidation ===

// InvalidateAlbum drops an album's detail and every listing that may show
// its purchase state
func (s *LibraryStore) InvalidateAlbum(albumID string) {
	s.deletePrefix(bucketAlbums, "album:"+albumID+":")
	s.deletePrefix(bucketAlbums, "section:")
}

func (s *LibraryStore) InvalidateArtist(artistID string) {
	s.deletePrefix(bucketArtists, "artist:"+artistID+":")
	s.delete(bucketArtists, "list")
}

func (s *LibraryStore) InvalidatePlaylists() {
	s.deletePrefix(bucketPlaylists, "kind:")
}

func (s *LibraryStore) InvalidatePlaylistTracks(playlistID string) {
	s.delete(bucketPlaylists, "playlist:"+playlistID+":tracks")
}

func (s *LibraryStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]entry)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	_ = s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if err := tx.DeleteBucket(bucket); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
