// Package ops implements the capture and album operations shared by
// the CLI, MCP, and web surfaces. Each operation takes an Input struct
// and returns an Output struct; insight generation lives in
// internal/engine, not here.
package ops

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/lumahq/luma/internal/config"
)

// Pagination limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// userFor resolves the acting user from config, defaulting to the
// local single-user profile.
func userFor(cfg *config.Config) string {
	if cfg != nil && cfg.User != "" {
		return cfg.User
	}
	return "local"
}

// cleanOptionalString trims and nils out empty optional fields.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
