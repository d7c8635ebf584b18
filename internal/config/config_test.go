package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600), "write config")
	return path
}

func TestParseServer_Defaults(t *testing.T) {
	opts, err := ParseServer([]string{"-config", filepath.Join(t.TempDir(), "missing.json")})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Address)
	assert.Equal(t, "postgres", opts.DatabaseDriver)
	assert.Equal(t, time.Hour, time.Duration(opts.CleanupInterval))
	assert.Equal(t, 30*24*time.Hour, time.Duration(opts.Retention))
}

func TestParseServer_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `{
		"address": "0.0.0.0:9000",
		"database_driver": "sqlite",
		"database_dsn": "file.db",
		"retention": "48h",
		"cleanup_interval": 60000000000
	}`)
	t.Setenv("DATABASE_DSN", "env.db")

	opts, err := ParseServer([]string{"-a", "127.0.0.1:1", "-c", path})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", opts.Address, "file should override flag")
	assert.Equal(t, "sqlite", opts.DatabaseDriver)
	assert.Equal(t, "env.db", opts.DatabaseDSN, "env should override file")
	assert.Equal(t, 48*time.Hour, time.Duration(opts.Retention))
	assert.Equal(t, time.Minute, time.Duration(opts.CleanupInterval))
}

func TestParseServer_ZeroRetentionAllowed(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	opts, err := ParseServer([]string{"-config", missing, "-retention", "0s"})
	require.NoError(t, err)
	assert.Zero(t, opts.Retention)
}

func TestParseServer_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	tests := []struct {
		name string
		args []string
	}{
		{"unknown driver", []string{"-config", missing, "-driver", "mysql"}},
		{"half tls", []string{"-config", missing, "-tls-cert", "server.crt"}},
		{"bad flag", []string{"-nope"}},
		{"bad file", []string{"-config", writeConfig(t, `{"address":`)}},
		{"bad duration", []string{"-config", writeConfig(t, `{"retention":"forever"}`)}},
		{"zero cleanup flag", []string{"-config", missing, "-cleanup-interval", "0"}},
		{"negative cleanup flag", []string{"-config", missing, "-cleanup-interval", "-1m"}},
		{"zero cleanup file", []string{"-config", writeConfig(t, `{"cleanup_interval":"0s"}`)}},
		{"negative retention", []string{"-config", missing, "-retention", "-1h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseServer(tt.args)
			assert.Error(t, err, "ParseServer(%v) expected error", tt.args)
		})
	}
}

func TestParseClient(t *testing.T) {
	path := writeConfig(t, `{"api_key": "file-key", "refresh_interval": "30s"}`)
	t.Setenv("SERVER_URL", "https://records.example.com")

	opts, err := ParseClient([]string{"-config", path, "-timeout", "2s"})
	require.NoError(t, err)

	assert.Equal(t, "https://records.example.com", opts.ServerURL)
	assert.Equal(t, "file-key", opts.APIKey)
	assert.Equal(t, 2*time.Second, time.Duration(opts.Timeout))
	assert.Equal(t, 30*time.Second, time.Duration(opts.RefreshInterval))
}
