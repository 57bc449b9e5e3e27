package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pmarczak/zloty-bank-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATA_DIR", "LOG_LEVEL", "ADMIN_ADDR", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := config.Load()
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.AdminAddr)
	assert.Equal(t, "", cfg.OTLPEndpoint)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/bankdata")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := config.Load()
	assert.Equal(t, "/tmp/bankdata", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	contents := "# comment\nDATA_DIR=/from/dotenv\nLOG_LEVEL=\"debug\"\n\nBROKEN LINE\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	t.Setenv("DATA_DIR", "")
	os.Unsetenv("DATA_DIR")
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, config.LoadDotEnv(path))

	// Set from the file.
	assert.Equal(t, "/from/dotenv", os.Getenv("DATA_DIR"))
	// Existing env vars win.
	assert.Equal(t, "warn", os.Getenv("LOG_LEVEL"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.Error(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
