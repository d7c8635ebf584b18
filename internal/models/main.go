// Package models defines the core data structures for user records.
package models

// Record is a user record persisted by the record store.
type Record struct {
	// ID is the opaque identifier assigned by the store.
	ID string `json:"id"`
	// Name is the display name of the user.
	Name string `json:"name"`
	// Email is the contact address of the user.
	Email string `json:"email"`
	// Age is kept as free-form text and never parsed.
	Age string `json:"age"`
}

// Fields returns the mutable part of the record.
func (r Record) Fields() Fields {
	return Fields{Name: r.Name, Email: r.Email, Age: r.Age}
}

// Fields holds the values sent to the store on create and update.
type Fields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   string `json:"age"`
}

// Validate reports ErrValidation if any field is empty.
func (f Fields) Validate() error {
	if f.Name == "" || f.Email == "" || f.Age == "" {
		return ErrValidation
	}
	return nil
}

// MutationKind identifies which mutating operation a signal refers to.
type MutationKind string

const (
	// Create adds a new record.
	Create MutationKind = "create"
	// Update changes the fields of an existing record.
	Update MutationKind = "update"
	// Delete removes a record.
	Delete MutationKind = "delete"
)
