package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"FIT_CREDENTIALS_PATH", "FIT_TOKEN_PATH", "FIT_OAUTH_REDIRECT_URL", "FIT_OAUTH_TIMEOUT",
	"FIT_PACKAGE_NAME", "FIT_STREAM_NAME", "FIT_STEP_COUNT", "FIT_PROJECT_NUMBER",
	"FIT_JOURNAL_DIR", "FIT_SPREADSHEET_ID", "FIT_SHEET_RANGE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".local/credentials.json", cfg.CredentialsPath)
	assert.Equal(t, ".local/token.json", cfg.TokenPath)
	assert.Equal(t, "http://localhost:8080/callback", cfg.OAuthRedirectURL)
	assert.Equal(t, 5*time.Minute, cfg.OAuthTimeout)
	assert.Equal(t, "step count", cfg.StreamName)
	assert.Equal(t, int64(950), cfg.StepCount)
	assert.Empty(t, cfg.ProjectNumber)
	assert.Empty(t, cfg.JournalDir)
	assert.Equal(t, "Steps!A:B", cfg.SheetRange)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("FIT_STEP_COUNT", "1200")
	t.Setenv("FIT_OAUTH_TIMEOUT", "90s")
	t.Setenv("FIT_PROJECT_NUMBER", "123456789")
	t.Setenv("FIT_SPREADSHEET_ID", "sheet-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(1200), cfg.StepCount)
	assert.Equal(t, 90*time.Second, cfg.OAuthTimeout)
	assert.Equal(t, "123456789", cfg.ProjectNumber)
	assert.Equal(t, "sheet-1", cfg.SpreadsheetID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "StepCountNotNumber", key: "FIT_STEP_COUNT", value: "lots"},
		{name: "NegativeStepCount", key: "FIT_STEP_COUNT", value: "-5"},
		{name: "BadTimeout", key: "FIT_OAUTH_TIMEOUT", value: "soon"},
		{name: "BadRedirect", key: "FIT_OAUTH_REDIRECT_URL", value: "not a url"},
		{name: "BadProjectNumber", key: "FIT_PROJECT_NUMBER", value: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv("FIT_STREAM_NAME"))
	t.Cleanup(func() { _ = os.Unsetenv("FIT_STREAM_NAME") })

	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FIT_STREAM_NAME=morning walk\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "morning walk", cfg.StreamName)
}
