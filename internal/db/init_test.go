package db_test

import (
	"path/filepath"
	"testing"

	"github.com/atinyakov/UserKeeper/internal/db"
	"github.com/atinyakov/UserKeeper/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", "some=random", "ping postgres"},
		{"empty DSN", "", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantSubstr)
		})
	}
}

func TestInitSQLite_Migrates(t *testing.T) {
	gdb, err := db.InitSQLite(filepath.Join(t.TempDir(), "test.db"), &repository.RecordRow{})
	require.NoError(t, err)
	assert.True(t, gdb.Migrator().HasTable("records"), "expected records table after migration")
}
