// Package controller keeps the local form and list state in step with a
// remote record store. Every mutation is followed by a full list refresh,
// and at most one store operation is outstanding at a time: operations
// started while busy are rejected with ErrBusy.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atinyakov/UserKeeper/internal/models"
	"go.uber.org/zap"
)

// ErrBusy is returned when an operation is invoked while another one is
// still waiting for the store.
var ErrBusy = errors.New("another operation is in progress")

// RecordStore is the remote store the controller synchronizes with.
type RecordStore interface {
	List(ctx context.Context) ([]models.Record, error)
	Create(ctx context.Context, f models.Fields) (string, error)
	Update(ctx context.Context, id string, f models.Fields) error
	Delete(ctx context.Context, id string) error
}

// Controller owns FormState and ListState and mediates every store call.
type Controller struct {
	store  RecordStore
	notify Notifier
	log    *zap.Logger

	// emit serializes busy transitions with their signals so observers see
	// Loading(false) of one operation before Loading(true) of the next.
	emit sync.Mutex

	mu   sync.Mutex
	form FormState
	list ListState
}

// New returns an idle controller. n and log may be nil.
func New(store RecordStore, n Notifier, log *zap.Logger) *Controller {
	if n == nil {
		n = NotifierFunc(func(Signal) {})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: store, notify: n, log: log}
}

// Form returns a copy of the form state.
func (c *Controller) Form() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Items returns a copy of the last fetched records.
func (c *Controller) Items() []models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Record(nil), c.list.Items...)
}

// Busy reports whether a store call is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Busy
}

// State returns a copy of the list state.
func (c *Controller) State() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ListState{Items: append([]models.Record(nil), c.list.Items...), Busy: c.list.Busy}
}

// Refresh replaces the list with the store's current records, in store order.
// On failure the previous list is kept and FetchFailed is signalled.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.claim() {
		return ErrBusy
	}
	c.start()
	defer c.finish()
	return c.reload(ctx)
}

// Submit creates a record from form, or updates form.EditingID when set.
// Empty fields fail with models.ErrValidation before any store call. On
// success the list is refreshed and the form reset; on store failure the
// form keeps the submitted values.
func (c *Controller) Submit(ctx context.Context, form FormState) error {
	if !c.claim() {
		return ErrBusy
	}
	c.mu.Lock()
	c.form = form
	c.mu.Unlock()

	fields := form.Fields()
	if err := fields.Validate(); err != nil {
		c.unclaim()
		c.signal(Signal{Type: SignalValidationError, Err: err})
		return err
	}

	c.start()
	defer c.finish()

	kind := models.Create
	var err error
	if form.IsEditing() {
		kind = models.Update
		err = c.store.Update(ctx, form.EditingID, fields)
	} else {
		_, err = c.store.Create(ctx, fields)
	}
	if err != nil {
		c.log.Error("mutation failed", zap.String("kind", string(kind)), zap.Error(err))
		c.signal(Signal{Type: SignalMutationFailed, Kind: kind, Err: err})
		return fmt.Errorf("%s record: %w", kind, err)
	}

	_ = c.reload(ctx)

	c.mu.Lock()
	c.form = FormState{}
	c.mu.Unlock()

	c.signal(Signal{Type: SignalMutationSucceeded, Kind: kind})
	return nil
}

// Remove deletes record id and refreshes the list. If the form was editing
// that record it is reset.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if !c.claim() {
		return ErrBusy
	}
	c.start()
	defer c.finish()

	if err := c.store.Delete(ctx, id); err != nil {
		c.log.Error("mutation failed", zap.String("kind", string(models.Delete)), zap.String("id", id), zap.Error(err))
		c.signal(Signal{Type: SignalMutationFailed, Kind: models.Delete, Err: err})
		return fmt.Errorf("%s record: %w", models.Delete, err)
	}

	_ = c.reload(ctx)

	c.mu.Lock()
	if c.form.EditingID == id {
		c.form = FormState{}
	}
	c.mu.Unlock()

	c.signal(Signal{Type: SignalMutationSucceeded, Kind: models.Delete})
	return nil
}

// BeginEdit loads r into the form and switches to edit mode.
func (c *Controller) BeginEdit(r models.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.list.Busy {
		return ErrBusy
	}
	c.form = FormState{Name: r.Name, Email: r.Email, Age: r.Age, EditingID: r.ID}
	return nil
}

// CancelEdit clears the form and leaves edit mode.
func (c *Controller) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.list.Busy {
		return ErrBusy
	}
	c.form = FormState{}
	return nil
}

// reload fetches the list. The caller holds the busy claim.
func (c *Controller) reload(ctx context.Context) error {
	items, err := c.store.List(ctx)
	if err != nil {
		c.log.Error("fetch failed", zap.Error(err))
		c.signal(Signal{Type: SignalFetchFailed, Err: err})
		return fmt.Errorf("fetch records: %w", err)
	}

	c.mu.Lock()
	c.list.Items = append(make([]models.Record, 0, len(items)), items...)
	c.mu.Unlock()
	return nil
}

// claim sets busy unless it is already set.
func (c *Controller) claim() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.list.Busy {
		return false
	}
	c.list.Busy = true
	return true
}

// unclaim clears busy without signalling; used when no store call was made.
func (c *Controller) unclaim() {
	c.mu.Lock()
	c.list.Busy = false
	c.mu.Unlock()
}

func (c *Controller) start() {
	c.signal(Signal{Type: SignalLoading, Loading: true})
}

func (c *Controller) finish() {
	c.emit.Lock()
	defer c.emit.Unlock()
	c.mu.Lock()
	c.list.Busy = false
	c.mu.Unlock()
	c.notify.Notify(Signal{Type: SignalLoading, Loading: false})
}

func (c *Controller) signal(s Signal) {
	c.emit.Lock()
	defer c.emit.Unlock()
	c.notify.Notify(s)
}
