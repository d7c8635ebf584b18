package controller

import "github.com/atinyakov/UserKeeper/internal/models"

// FormState holds the editable field values. A non-empty EditingID means
// submitting updates that record; an empty one means submitting creates.
type FormState struct {
	Name      string
	Email     string
	Age       string
	EditingID string
}

// IsEditing reports whether the form targets an existing record.
func (f FormState) IsEditing() bool { return f.EditingID != "" }

// Fields returns the values that are sent to the store.
func (f FormState) Fields() models.Fields {
	return models.Fields{Name: f.Name, Email: f.Email, Age: f.Age}
}

// ListState is the last fetched snapshot of records and the busy flag.
type ListState struct {
	Items []models.Record
	Busy  bool
}
