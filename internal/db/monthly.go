package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lumahq/luma/internal/insights"
)

// GetMonthlySummary returns the stored summary for a month, or nil when
// none has been generated yet.
func GetMonthlySummary(db *sql.DB, user, monthKey string) (*insights.MonthlySummary, error) {
	var (
		s           insights.MonthlySummary
		phrase      sql.NullString
		reasoning   sql.NullString
		generatedAt int64
	)
	err := db.QueryRow(`
		SELECT month_key, phrase, reasoning, total_captures, generated_at
		FROM monthly_summaries WHERE user_id = ? AND month_key = ?
	`, user, monthKey).Scan(&s.MonthKey, &phrase, &reasoning, &s.TotalCaptures, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get monthly summary: %w", err)
	}
	s.Phrase = fromNullString(phrase)
	s.Reasoning = fromNullString(reasoning)
	s.GeneratedAt = time.Unix(generatedAt, 0)
	return &s, nil
}

// PutMonthlySummary stores or replaces the summary for a month.
func PutMonthlySummary(db *sql.DB, user string, s *insights.MonthlySummary) error {
	_, err := db.Exec(`
		INSERT INTO monthly_summaries (user_id, month_key, phrase, reasoning, total_captures, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, month_key) DO UPDATE SET
			phrase = excluded.phrase,
			reasoning = excluded.reasoning,
			total_captures = excluded.total_captures,
			generated_at = excluded.generated_at
	`, user, s.MonthKey, toNullString(s.Phrase), toNullString(s.Reasoning),
		s.TotalCaptures, s.GeneratedAt.Unix())
	if err != nil {
		return fmt.Errorf("put monthly summary: %w", err)
	}
	return nil
}
