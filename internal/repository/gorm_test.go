package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/atinyakov/UserKeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGorm(t *testing.T) *GormRecordRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "records.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&RecordRow{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewGormRecordRepository(db)
}

func TestGorm_CRUD(t *testing.T) {
	repo := setupGorm(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, models.Record{ID: "a", Name: "Al", Email: "al@example.com", Age: "1"}))
	require.NoError(t, repo.Insert(ctx, models.Record{ID: "b", Name: "Bo", Email: "bo@example.com", Age: "2"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, repo.Update(ctx, "a", models.Fields{Name: "Alan", Email: "alan@example.com", Age: "one"}))
	// same values again still matches the row
	require.NoError(t, repo.Update(ctx, "a", models.Fields{Name: "Alan", Email: "alan@example.com", Age: "one"}))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Record{ID: "a", Name: "Alan", Email: "alan@example.com", Age: "one"}, list[0])

	require.NoError(t, repo.SoftDelete(ctx, "a"))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Record{{ID: "b", Name: "Bo", Email: "bo@example.com", Age: "2"}}, list)

	assert.ErrorIs(t, repo.SoftDelete(ctx, "a"), models.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, "a", models.Fields{Name: "x", Email: "y", Age: "z"}), models.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, "nope", models.Fields{Name: "x", Email: "y", Age: "z"}), models.ErrNotFound)
}

func TestGorm_InsertDuplicate(t *testing.T) {
	repo := setupGorm(t)
	ctx := context.Background()

	rec := models.Record{ID: "same", Name: "n", Email: "e", Age: "a"}
	require.NoError(t, repo.Insert(ctx, rec))
	assert.ErrorIs(t, repo.Insert(ctx, rec), models.ErrConflict)
}

func TestGorm_PurgeDeleted(t *testing.T) {
	repo := setupGorm(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, models.Record{ID: "old", Name: "n", Email: "e", Age: "a"}))
	require.NoError(t, repo.Insert(ctx, models.Record{ID: "live", Name: "n", Email: "e", Age: "a"}))
	require.NoError(t, repo.SoftDelete(ctx, "old"))

	n, err := repo.PurgeDeleted(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "retention not yet elapsed")

	n, err = repo.PurgeDeleted(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].ID)
}
