package db

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lumahq/luma/internal/capture"
)

// ErrNotFound is returned when a requested record does not exist.
// Callers map it to their own surface (stage taxonomy, HTTP 404).
var ErrNotFound = stderrors.New("record not found")

// InsertCapture stores a new capture.
func InsertCapture(db *sql.DB, c *capture.Capture) error {
	tagsJSON, err := marshalTags(c.Tags)
	if err != nil {
		return err
	}

	var include sql.NullInt64
	if c.IncludeInInsights != nil {
		include.Valid = true
		if *c.IncludeInInsights {
			include.Int64 = 1
		}
	}

	query := `
		INSERT INTO captures (
			id, user_id, created_at, mood_id, mood_name,
			note, image_ref, tags_json, include_in_insights
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.Exec(query,
		c.ID, toNullString(c.UserID), c.CreatedAt.Unix(), c.Mood.Raw(), c.MoodName,
		toNullString(c.Note), c.ImageRef, tagsJSON, include,
	)
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	return nil
}

// GetCapture retrieves a capture by ID.
func GetCapture(db *sql.DB, id string) (*capture.Capture, error) {
	row := db.QueryRow(captureSelect+" WHERE id = ?", id)
	c, err := scanCapture(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get capture: %w", err)
	}
	return c, nil
}

// ListCaptures returns a user's captures ordered by creation time
// ascending, optionally bounded to [from, to] (inclusive, matching
// period semantics).
func ListCaptures(db *sql.DB, user string, from, to *time.Time) ([]capture.Capture, error) {
	query := captureSelect + " WHERE user_id = ?"
	args := []any{user}
	if from != nil {
		query += " AND created_at >= ?"
		args = append(args, from.Unix())
	}
	if to != nil {
		query += " AND created_at <= ?"
		args = append(args, to.Unix())
	}
	query += " ORDER BY created_at ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list captures: %w", err)
	}
	defer rows.Close()

	return collectCaptures(rows)
}

// DeleteCapture hard-deletes a capture and cascades out of album
// memberships in one transaction. Snapshots are left untouched: they
// are records of what a narrative was built from, and pending counts
// absorb the deletion on the next recompute.
func DeleteCapture(db *sql.DB, id string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("delete capture: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM album_captures WHERE capture_id = ?", id); err != nil {
		return fmt.Errorf("delete album memberships: %w", err)
	}

	res, err := tx.Exec("DELETE FROM captures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete capture: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete capture: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// CountCaptures returns the number of a user's captures within the
// optional bounds.
func CountCaptures(db *sql.DB, user string, from, to *time.Time) (int, error) {
	query := "SELECT COUNT(*) FROM captures WHERE user_id = ?"
	args := []any{user}
	if from != nil {
		query += " AND created_at >= ?"
		args = append(args, from.Unix())
	}
	if to != nil {
		query += " AND created_at <= ?"
		args = append(args, to.Unix())
	}

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count captures: %w", err)
	}
	return n, nil
}

const captureSelect = `
	SELECT id, user_id, created_at, mood_id, mood_name,
		note, image_ref, tags_json, include_in_insights
	FROM captures
`

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanCapture(s scanner) (*capture.Capture, error) {
	var (
		c         capture.Capture
		userID    sql.NullString
		createdAt int64
		moodID    string
		note      sql.NullString
		tagsJSON  sql.NullString
		include   sql.NullInt64
	)
	if err := s.Scan(&c.ID, &userID, &createdAt, &moodID, &c.MoodName,
		&note, &c.ImageRef, &tagsJSON, &include); err != nil {
		return nil, err
	}

	c.UserID = fromNullString(userID)
	c.CreatedAt = time.Unix(createdAt, 0)
	c.Mood = capture.ParseMoodRef(moodID)
	c.Note = fromNullString(note)
	if tagsJSON.Valid {
		if err := json.Unmarshal([]byte(tagsJSON.String), &c.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if include.Valid {
		v := include.Int64 == 1
		c.IncludeInInsights = &v
	}
	return &c, nil
}

func collectCaptures(rows *sql.Rows) ([]capture.Capture, error) {
	out := make([]capture.Capture, 0)
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate captures: %w", err)
	}
	return out, nil
}

func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode tags: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
