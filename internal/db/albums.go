package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lumahq/luma/internal/capture"
)

// Album is a named collection of captures.
type Album struct {
	ID        string
	UserID    *string
	Name      string
	CreatedAt time.Time
}

// InsertAlbum stores a new album.
func InsertAlbum(db *sql.DB, a *Album) error {
	_, err := db.Exec(
		"INSERT INTO albums (id, user_id, name, created_at) VALUES (?, ?, ?, ?)",
		a.ID, toNullString(a.UserID), a.Name, a.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert album: %w", err)
	}
	return nil
}

// GetAlbum retrieves an album by ID.
func GetAlbum(db *sql.DB, id string) (*Album, error) {
	var (
		a         Album
		userID    sql.NullString
		createdAt int64
	)
	err := db.QueryRow("SELECT id, user_id, name, created_at FROM albums WHERE id = ?", id).
		Scan(&a.ID, &userID, &a.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	a.UserID = fromNullString(userID)
	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}

// ListAlbums returns a user's albums ordered by creation time.
func ListAlbums(db *sql.DB, user string) ([]Album, error) {
	rows, err := db.Query(
		"SELECT id, user_id, name, created_at FROM albums WHERE user_id = ? ORDER BY created_at ASC",
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	out := make([]Album, 0)
	for rows.Next() {
		var (
			a         Album
			userID    sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&a.ID, &userID, &a.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		a.UserID = fromNullString(userID)
		a.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return out, nil
}

// AddCaptureToAlbum records album membership. Adding the same capture
// twice is a no-op.
func AddCaptureToAlbum(db *sql.DB, albumID, captureID string, at time.Time) error {
	_, err := db.Exec(
		"INSERT OR IGNORE INTO album_captures (album_id, capture_id, added_at) VALUES (?, ?, ?)",
		albumID, captureID, at.Unix(),
	)
	if err != nil {
		return fmt.Errorf("add capture to album: %w", err)
	}
	return nil
}

// ListAlbumCaptures returns the captures belonging to an album in
// creation order.
func ListAlbumCaptures(db *sql.DB, albumID string) ([]capture.Capture, error) {
	query := `
		SELECT c.id, c.user_id, c.created_at, c.mood_id, c.mood_name,
			c.note, c.image_ref, c.tags_json, c.include_in_insights
		FROM captures c
		JOIN album_captures ac ON ac.capture_id = c.id
		WHERE ac.album_id = ?
		ORDER BY c.created_at ASC
	`
	rows, err := db.Query(query, albumID)
	if err != nil {
		return nil, fmt.Errorf("list album captures: %w", err)
	}
	defer rows.Close()

	return collectCaptures(rows)
}
