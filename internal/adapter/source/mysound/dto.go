package mysound

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// envelope wraps every API response
type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// flexID accepts identifiers sent either as JSON strings or numbers
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

// flexFloat accepts numbers sent either as JSON numbers or numeric strings
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// SongDTO is a song as returned by the catalog endpoints
type SongDTO struct {
	ID          flexID     `json:"id"`
	Title       string     `json:"title"`
	ArtistID    flexID     `json:"artist_id"`
	AlbumID     flexID     `json:"album_id"`
	Duration    flexFloat  `json:"duration"` // Seconds
	File        string     `json:"file"`
	ReleaseDate string     `json:"release_date"`
	CoverImage  string     `json:"cover_image"`
	Lyrics      string     `json:"lyrics"`
	Type        string     `json:"type"`
	ArtistName  string     `json:"artist_name"`
	PlayCount   int        `json:"play_count"`
	IsLiked     bool       `json:"is_liked"`
	Artist      *ArtistDTO `json:"artist"`
}

// ArtistDTO is an artist profile
type ArtistDTO struct {
	ID             flexID `json:"id"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	Image          string `json:"image"`
	Instagram      string `json:"instagram"`
	Facebook       string `json:"facebook"`
	Twitter        string `json:"twitter"`
	Link           string `json:"link"`
	FollowersCount int    `json:"followers_count"`
}

// AlbumDTO is an album listing entry or album detail
type AlbumDTO struct {
	ID          flexID    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	PriceUSD    flexFloat `json:"price_usd"`
	ArtistID    flexID    `json:"artist_id"`
	ArtistName  string    `json:"artist_name"`
	ReleaseDate string    `json:"release_date"`
	CreatedAt   string    `json:"created_at"`
	SongsCount  int       `json:"songs_count"`
	IsPurchased bool      `json:"is_purchased"`
}

// AlbumSongsDTO is the response of /api/album/songs/{id}
type AlbumSongsDTO struct {
	AlbumDTO
	Songs       []SongDTO `json:"songs"`
	IsPurchased *bool     `json:"is_purchased"` // Absent on some deployments
}

// PlaylistOwnerDTO is the user embedded in a playlist
type PlaylistOwnerDTO struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

// PlaylistDTO is a playlist, with songs when fetched individually
type PlaylistDTO struct {
	ID          flexID            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	SongsCount  int               `json:"songs_count"`
	Songs       []SongDTO         `json:"songs"`
	User        *PlaylistOwnerDTO `json:"user"`
}

// UserDTO is the authenticated account
type UserDTO struct {
	ID       flexID `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the data of a successful login
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// FollowStatusDTO is the response of the following check
type FollowStatusDTO struct {
	IsFollowing bool `json:"isFollowing"`
}

// CheckoutSessionRequest is the body of POST /api/create-checkout-session
type CheckoutSessionRequest struct {
	Amount        float64 `json:"amount"`
	ArtistID      string  `json:"artistId"`
	Type          string  `json:"type"`
	TransactionID string  `json:"transactionId"`
	AlbumID       string  `json:"albumId"`
	Email         string  `json:"email,omitempty"`
	SuccessURL    string  `json:"successUrl"`
	CancelURL     string  `json:"cancelUrl"`
}

// CheckoutSessionDTO is the created checkout session
type CheckoutSessionDTO struct {
	SessionID string `json:"sessionId"`
}
