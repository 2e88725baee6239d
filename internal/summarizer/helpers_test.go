package summarizer

import (
	"testing"

	"github.com/lumahq/luma/internal/config"
)

func testConfig(t *testing.T, key string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.APIKeyEnv = "LUMA_TEST_API_KEY"
	t.Setenv(cfg.APIKeyEnv, key)
	return cfg
}
