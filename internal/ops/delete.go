package ops

import (
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
	"github.com/lumahq/luma/internal/errors"
	"github.com/lumahq/luma/internal/period"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string // required
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Delete hard-deletes a capture, its album memberships, and the
// affected day's cached flow.
func Delete(database *sql.DB, cfg *config.Config, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewValidate("id is required")
	}

	// Read first so we know which day's flow cache to invalidate.
	c, err := db.GetCapture(database, id)
	if err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			return &DeleteOutput{ID: id, Deleted: false}, nil
		}
		return nil, errors.NewFetch(err)
	}

	if err := db.DeleteCapture(database, id); err != nil {
		if stderrors.Is(err, db.ErrNotFound) {
			return &DeleteOutput{ID: id, Deleted: false}, nil
		}
		return nil, errors.NewFetch(err)
	}

	dayKey := period.DayKey(c.CreatedAt)
	if err := db.DeleteDailyFlow(database, userFor(cfg), dayKey); err != nil {
		return nil, errors.NewFetch(err)
	}

	return &DeleteOutput{ID: id, Deleted: true}, nil
}
