// Package repository provides persistence implementations for the record
// service using PostgreSQL (database/sql with lib/pq) or SQLite (gorm).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/UserKeeper/internal/models"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// PostgresRecordRepository implements record persistence against a PostgreSQL database.
type PostgresRecordRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresRecordRepository creates a new PostgresRecordRepository using the provided *sql.DB.
// db must be a valid connection to a PostgreSQL instance with the records schema applied.
func NewPostgresRecordRepository(db *sql.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{DB: db}
}

// List returns every live record ordered by creation time.
func (r *PostgresRecordRepository) List(ctx context.Context) ([]models.Record, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, age FROM records WHERE deleted_at IS NULL ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Age); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Insert stores a new record. A duplicate id yields models.ErrConflict.
func (r *PostgresRecordRepository) Insert(ctx context.Context, rec models.Record) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO records (id, name, email, age) VALUES ($1, $2, $3, $4)
	`, rec.ID, rec.Name, rec.Email, rec.Age)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.ErrConflict
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update overwrites the fields of a live record.
// Returns models.ErrNotFound when no live record has the id.
func (r *PostgresRecordRepository) Update(ctx context.Context, id string, f models.Fields) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE records SET name = $2, email = $3, age = $4, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, f.Name, f.Email, f.Age)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return expectOneRow(res)
}

// SoftDelete marks a live record as deleted.
// Returns models.ErrNotFound when no live record has the id.
func (r *PostgresRecordRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE records SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return expectOneRow(res)
}

// PurgeDeleted permanently removes records soft-deleted before cutoff and
// returns the number of removed rows.
func (r *PostgresRecordRepository) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM records WHERE deleted_at IS NOT NULL AND deleted_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
