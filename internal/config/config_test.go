package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid config",
			yaml: "mongo_uri: mongodb://localhost:27017\n" +
				"postgres_dsn: postgres://localhost:5432/dvdrental\n",
			wantErr: "",
		},
		{
			name:    "dev mode needs no datastores",
			yaml:    "dev_mode: true\n",
			wantErr: "",
		},
		{
			name:    "missing datastores fails validation",
			yaml:    "log_level: info\n",
			wantErr: "config validation failed",
		},
		{
			name: "bad log level fails validation",
			yaml: "dev_mode: true\n" +
				"log_level: loud\n",
			wantErr: "config validation failed",
		},
		{
			name:    "invalid yaml syntax",
			yaml:    `invalid: [yaml: content`,
			wantErr: "failed to unmarshal config file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := writeTestConfig(t, test.yaml)
			cfg, err := Load(path)

			if test.wantErr != "" {
				require.ErrorContains(t, err, test.wantErr)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTestConfig(t, "dev_mode: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", cfg.WebAddress)
	assert.Equal(t, "sample_mflix", cfg.MongoDB)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FILMSHELF_WEB_ADDRESS", "localhost:8123")
	t.Setenv("FILMSHELF_SESSION_TTL", "30m")

	path := writeTestConfig(t, "dev_mode: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8123", cfg.WebAddress)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.ErrorContains(t, err, "failed to read config file")
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, cfg)
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}
