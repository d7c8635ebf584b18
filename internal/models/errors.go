package models

import "errors"

var (
	// ErrValidation is returned when a required field is empty.
	ErrValidation = errors.New("please fill in all fields")
	// ErrNotFound is returned when the target record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record with the same id already exists.
	ErrConflict = errors.New("record already exists")
)
