package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/UserKeeper/internal/models"
	"gorm.io/gorm"
)

// RecordRow is the gorm model of the records table.
type RecordRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null"`
	Age       string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName keeps the gorm table aligned with the PostgreSQL schema.
func (RecordRow) TableName() string { return "records" }

// GormRecordRepository implements record persistence through gorm.
// It is used with the SQLite driver for local runs.
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository wraps an opened and migrated gorm handle.
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// List returns every live record ordered by creation time.
func (r *GormRecordRepository) List(ctx context.Context) ([]models.Record, error) {
	var rows []RecordRow
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.Record{ID: row.ID, Name: row.Name, Email: row.Email, Age: row.Age})
	}
	return records, nil
}

// Insert stores a new record. A duplicate id yields models.ErrConflict.
func (r *GormRecordRepository) Insert(ctx context.Context, rec models.Record) error {
	row := RecordRow{ID: rec.ID, Name: rec.Name, Email: rec.Email, Age: rec.Age}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrConflict
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update overwrites the fields of a live record.
func (r *GormRecordRepository) Update(ctx context.Context, id string, f models.Fields) error {
	res := r.db.WithContext(ctx).Model(&RecordRow{}).Where("id = ?", id).Updates(map[string]any{
		"name":  f.Name,
		"email": f.Email,
		"age":   f.Age,
	})
	if res.Error != nil {
		return fmt.Errorf("update record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SoftDelete sets deleted_at on a live record.
func (r *GormRecordRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&RecordRow{})
	if res.Error != nil {
		return fmt.Errorf("delete record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PurgeDeleted permanently removes records soft-deleted before cutoff.
func (r *GormRecordRepository) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&RecordRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge records: %w", res.Error)
	}
	return res.RowsAffected, nil
}
