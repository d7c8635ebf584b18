// Package service provides the record business logic of the backend,
// delegating persistence to a repository interface.
package service

import (
	"context"
	"errors"

	"github.com/atinyakov/UserKeeper/internal/models"
	"github.com/google/uuid"
)

// RecordRepository defines the persistence operations needed by the RecordService.
type RecordRepository interface {
	// List returns all live records in store order.
	List(ctx context.Context) ([]models.Record, error)
	// Insert stores a new record; models.ErrConflict on duplicate id.
	Insert(ctx context.Context, rec models.Record) error
	// Update overwrites a live record; models.ErrNotFound when absent.
	Update(ctx context.Context, id string, f models.Fields) error
	// SoftDelete hides a live record; models.ErrNotFound when absent.
	SoftDelete(ctx context.Context, id string) error
}

// maxIDAttempts bounds retries when a generated id collides.
const maxIDAttempts = 3

// RecordService implements create, list, update and delete of records.
type RecordService struct {
	repo  RecordRepository
	newID func() string
}

// NewRecordService constructs a RecordService with the provided repository.
// Record ids are random UUIDs.
func NewRecordService(repo RecordRepository) *RecordService {
	return &RecordService{repo: repo, newID: uuid.NewString}
}

// List returns every record in the order the repository yields them.
func (s *RecordService) List(ctx context.Context) ([]models.Record, error) {
	return s.repo.List(ctx)
}

// Create validates f, assigns a new id and stores the record.
func (s *RecordService) Create(ctx context.Context, f models.Fields) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	var err error
	for range maxIDAttempts {
		rec := models.Record{ID: s.newID(), Name: f.Name, Email: f.Email, Age: f.Age}
		err = s.repo.Insert(ctx, rec)
		if err == nil {
			return rec.ID, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return "", err
		}
	}
	return "", err
}

// Update validates f and overwrites the record with the given id.
func (s *RecordService) Update(ctx context.Context, id string, f models.Fields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, f)
}

// Delete removes the record with the given id.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}
