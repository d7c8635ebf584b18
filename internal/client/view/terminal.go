// Package view renders the record form and list in a terminal and turns
// typed commands into controller intents.
package view

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/atinyakov/UserKeeper/internal/client/controller"
	"github.com/atinyakov/UserKeeper/internal/models"
)

const helpText = "Available commands: help, list, refresh, add, edit <id|#>, submit, form, cancel, delete <id|#>, exit"

// Controller is the subset of the sync controller the terminal drives.
type Controller interface {
	Refresh(ctx context.Context) error
	Submit(ctx context.Context, form controller.FormState) error
	Remove(ctx context.Context, id string) error
	BeginEdit(r models.Record) error
	CancelEdit() error
	Form() controller.FormState
	Items() []models.Record
}

// Terminal is a line-oriented view. It implements controller.Notifier.
type Terminal struct {
	in  *bufio.Scanner
	out io.Writer

	mu sync.Mutex
	// pending holds a prompted form that was rejected as busy, so a later
	// submit sends what the user typed. Only Run touches it.
	pending *controller.FormState
	// interactive is set while a typed command runs, so background
	// refreshes do not print loading notices.
	interactive atomic.Bool
}

// New returns a Terminal reading commands from in and writing to out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

// Notify presents controller signals as alerts.
func (t *Terminal) Notify(s controller.Signal) {
	switch s.Type {
	case controller.SignalLoading:
		if s.Loading && t.interactive.Load() {
			t.println("Loading...")
		}
	case controller.SignalValidationError:
		t.println("Error: Please fill in all fields")
	case controller.SignalFetchFailed:
		t.println("Error: Failed to fetch users. Please check your connection or try again later.")
	case controller.SignalMutationSucceeded:
		t.printf("Success: User %s successfully!\n", pastTense(s.Kind))
	case controller.SignalMutationFailed:
		t.printf("Error: Failed to %s user. Please check your connection or try again later.\n", verb(s.Kind))
	}
}

// Run loads the list and processes commands until exit or end of input.
func (t *Terminal) Run(ctx context.Context, c Controller) {
	t.exec(func() { _ = c.Refresh(ctx) })
	t.renderList(c.Items())

	for {
		t.print("userkeeper> ")
		if !t.in.Scan() {
			t.println()
			return
		}
		args := strings.Fields(strings.TrimSpace(t.in.Text()))
		if len(args) == 0 {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		switch args[0] {
		case "help":
			t.println(helpText)
		case "list":
			t.renderList(c.Items())
		case "refresh":
			t.exec(func() { t.report(c.Refresh(ctx)) })
			t.renderList(c.Items())
		case "add":
			form, ok := t.promptForm(controller.FormState{})
			if !ok {
				return
			}
			t.submit(ctx, c, form)
		case "edit":
			rec, ok := t.lookup(c.Items(), args)
			if !ok {
				continue
			}
			if err := c.BeginEdit(rec); err != nil {
				t.report(err)
				continue
			}
			form, ok := t.promptForm(c.Form())
			if !ok {
				return
			}
			t.submit(ctx, c, form)
		case "submit":
			t.submit(ctx, c, t.currentForm(c))
		case "form":
			t.renderForm(t.currentForm(c))
		case "cancel":
			err := c.CancelEdit()
			if err == nil {
				t.pending = nil
			}
			t.report(err)
		case "delete":
			rec, ok := t.lookup(c.Items(), args)
			if !ok {
				continue
			}
			if !t.confirm(fmt.Sprintf("Delete %s? [y/N]: ", rec.Name)) {
				t.println("Cancelled")
				continue
			}
			t.exec(func() { t.report(c.Remove(ctx, rec.ID)) })
			t.renderList(c.Items())
		case "exit", "quit":
			t.println("Bye")
			return
		default:
			t.println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// submit sends form. A busy rejection keeps form pending for the next submit.
func (t *Terminal) submit(ctx context.Context, c Controller, form controller.FormState) {
	var err error
	t.exec(func() { err = c.Submit(ctx, form) })
	t.report(err)
	if errors.Is(err, controller.ErrBusy) {
		t.pending = &form
		t.println("Your input is kept, type 'submit' to retry.")
	} else {
		t.pending = nil
	}
	t.renderList(c.Items())
}

// currentForm is the pending form if there is one, else the controller's.
func (t *Terminal) currentForm(c Controller) controller.FormState {
	if t.pending != nil {
		return *t.pending
	}
	return c.Form()
}

func (t *Terminal) exec(fn func()) {
	t.interactive.Store(true)
	defer t.interactive.Store(false)
	fn()
}

// report prints what the controller does not signal itself.
func (t *Terminal) report(err error) {
	if errors.Is(err, controller.ErrBusy) {
		t.println("Busy, please wait for the current operation to finish.")
	}
}

// lookup resolves args[1] as a record id or a 1-based list position.
func (t *Terminal) lookup(items []models.Record, args []string) (models.Record, bool) {
	if len(args) < 2 {
		t.printf("Usage: %s <id|#>\n", args[0])
		return models.Record{}, false
	}
	key := args[1]
	for _, r := range items {
		if r.ID == key {
			return r, true
		}
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], true
	}
	t.println("User not found")
	return models.Record{}, false
}

// promptForm asks for each field; an empty answer keeps the current value.
// It returns false when input ends.
func (t *Terminal) promptForm(cur controller.FormState) (controller.FormState, bool) {
	fields := []struct {
		label string
		dst   *string
	}{
		{"Name", &cur.Name},
		{"Email", &cur.Email},
		{"Age", &cur.Age},
	}
	for _, f := range fields {
		if *f.dst != "" {
			t.printf("%s [%s]: ", f.label, *f.dst)
		} else {
			t.printf("%s: ", f.label)
		}
		if !t.in.Scan() {
			return cur, false
		}
		if v := strings.TrimSpace(t.in.Text()); v != "" {
			*f.dst = v
		}
	}
	return cur, true
}

func (t *Terminal) confirm(question string) bool {
	t.print(question)
	if !t.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(t.in.Text()))
	return answer == "y" || answer == "yes"
}

func (t *Terminal) renderList(items []models.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(items) == 0 {
		fmt.Fprintln(t.out, "No users")
		return
	}
	fmt.Fprintln(t.out, "Users:")
	for i, r := range items {
		fmt.Fprintf(t.out, "%d. %s <%s> age %s [id %s]\n", i+1, r.Name, r.Email, r.Age, r.ID)
	}
}

func (t *Terminal) renderForm(f controller.FormState) {
	mode := "Add User"
	if f.IsEditing() {
		mode = "Update User " + f.EditingID
	}
	t.printf("%s\n  Name:  %s\n  Email: %s\n  Age:   %s\n", mode, f.Name, f.Email, f.Age)
}

func (t *Terminal) print(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, s)
}

func (t *Terminal) println(a ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, a...)
}

func (t *Terminal) printf(format string, a ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, a...)
}

func pastTense(k models.MutationKind) string {
	switch k {
	case models.Create:
		return "added"
	case models.Update:
		return "updated"
	case models.Delete:
		return "deleted"
	}
	return string(k)
}

func verb(k models.MutationKind) string {
	if k == models.Create {
		return "add"
	}
	return string(k)
}
