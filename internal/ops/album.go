package ops

import (
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
)

// AlbumCreateInput contains parameters for the AlbumCreate operation.
type AlbumCreateInput struct {
	Name string // required
}

// AlbumCreateOutput contains the result of the AlbumCreate operation.
type AlbumCreateOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumCreate creates a new empty album.
func AlbumCreate(database *sql.DB, cfg *config.Config, input AlbumCreateInput) (*AlbumCreateOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewValidate("name is required")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewUnknown(err)
	}
	user := userFor(cfg)
	a := &db.Album{ID: id, UserID: &user, Name: name, CreatedAt: time.Now()}
	if err := db.InsertAlbum(database, a); err != nil {
		return nil, errors.NewFetch(err)
	}
	return &AlbumCreateOutput{ID: id, Name: name}, nil
}

// AlbumAddInput contains parameters for the AlbumAdd operation.
type AlbumAddInput struct {
	AlbumID   string // required
	CaptureID string // required
}

// AlbumAddOutput contains the result of the AlbumAdd operation.
type AlbumAddOutput struct {
	AlbumID   string `json:"album_id"`
	CaptureID string `json:"capture_id"`
}

// AlbumAdd adds a capture to an album. Re-adding is a no-op.
func AlbumAdd(database *sql.DB, cfg *config.Config, input AlbumAddInput) (*AlbumAddOutput, error) {
	albumID := strings.TrimSpace(input.AlbumID)
	captureID := strings.TrimSpace(input.CaptureID)
	if albumID == "" || captureID == "" {
		return nil, errors.NewValidate("album_id and capture_id are required")
	}

	// Both ends must exist; the join table has no foreign keys.
	if _, err := db.GetAlbum(database, albumID); err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			return nil, errors.NewValidate("album not found: " + albumID)
		}
		return nil, errors.NewFetch(err)
	}
	if _, err := db.GetCapture(database, captureID); err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			return nil, errors.NewValidate("capture not found: " + captureID)
		}
		return nil, errors.NewFetch(err)
	}

	if err := db.AddCaptureToAlbum(database, albumID, captureID, time.Now()); err != nil {
		return nil, errors.NewFetch(err)
	}
	return &AlbumAddOutput{AlbumID: albumID, CaptureID: captureID}, nil
}

// AlbumView is an album with its capture count.
type AlbumView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Captures  int       `json:"captures"`
}

// AlbumListOutput contains the result of the AlbumList operation.
type AlbumListOutput struct {
	Items []AlbumView `json:"items"`
}

// AlbumList returns the user's albums with member counts.
func AlbumList(database *sql.DB, cfg *config.Config) (*AlbumListOutput, error) {
	albums, err := db.ListAlbums(database, userFor(cfg))
	if err != nil {
		return nil, errors.NewFetch(err)
	}

	items := make([]AlbumView, 0, len(albums))
	for _, a := range albums {
		members, err := db.ListAlbumCaptures(database, a.ID)
		if err != nil {
			return nil, errors.NewFetch(err)
		}
		items = append(items, AlbumView{
			ID:        a.ID,
			Name:      a.Name,
			CreatedAt: a.CreatedAt,
			Captures:  len(members),
		})
	}
	return &AlbumListOutput{Items: items}, nil
}

// AlbumShowInput contains parameters for the AlbumShow operation.
type AlbumShowInput struct {
	AlbumID string // required
}

// AlbumShowOutput contains the result of the AlbumShow operation.
type AlbumShowOutput struct {
	Album AlbumView     `json:"album"`
	Items []CaptureView `json:"items"`
}

// AlbumShow returns one album and its captures, resolved for display.
func AlbumShow(database *sql.DB, cfg *config.Config, input AlbumShowInput) (*AlbumShowOutput, error) {
	albumID := strings.TrimSpace(input.AlbumID)
	if albumID == "" {
		return nil, errors.NewValidate("album_id is required")
	}

	a, err := db.GetAlbum(database, albumID)
	if err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			return nil, errors.NewValidate("album not found: " + albumID)
		}
		return nil, errors.NewFetch(err)
	}
	members, err := db.ListAlbumCaptures(database, albumID)
	if err != nil {
		return nil, errors.NewFetch(err)
	}

	items := make([]CaptureView, 0, len(members))
	for _, c := range members {
		items = append(items, viewOf(c))
	}
	return &AlbumShowOutput{
		Album: AlbumView{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt, Captures: len(members)},
		Items: items,
	}, nil
}
