package ops

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func testCfg() *config.Config {
	return config.DefaultConfig()
}
