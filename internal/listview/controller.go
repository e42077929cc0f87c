package listview

import (
	"context"
	"errors"

	"accounts-cli/internal/model"
	"accounts-cli/internal/notify"

	"github.com/rs/zerolog"
)

// Backend is the remote read/write pair the list view is bound to.
type Backend interface {
	FetchAccounts(ctx context.Context) ([]model.Account, error)
	SaveAccounts(ctx context.Context, updates []model.AccountUpdate) error
}

const (
	msgLoadFailed = "Error loading accounts"
	msgSaved      = "Records saved successfully"
	msgSaveFailed = "Failed to save records"
)

type FetchError struct{ Err error }

func (e *FetchError) Error() string { return "fetch accounts: " + errString(e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

type SaveError struct{ Err error }

func (e *SaveError) Error() string { return "save accounts: " + errString(e.Err) }

func (e *SaveError) Unwrap() error { return e.Err }

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

type SubscriptionState int

const (
	Unloaded SubscriptionState = iota
	Loaded
	LoadFailed
)

func (s SubscriptionState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "error"
	default:
		return "unloaded"
	}
}

type BufferState int

const (
	Idle BufferState = iota
	Editing
	Saving
)

func (s BufferState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "idle"
	}
}

// FetchResult is what one remote read delivers: data or an error.
type FetchResult struct {
	Data []model.Account
	Err  error
}

// Controller binds a View and an EditBuffer to a Backend.
//
// Fetch and Commit only touch the backend and may run on another goroutine;
// every other method mutates state and belongs on the UI goroutine.
type Controller struct {
	backend  Backend
	notifier notify.Notifier
	log      zerolog.Logger

	view  *View
	edits *EditBuffer

	sub    SubscriptionState
	saving bool
}

type Option func(*Controller)

func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(b Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:  b,
		notifier: notify.Discard,
		log:      zerolog.Nop(),
		view:     NewView(),
		edits:    NewEditBuffer(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) View() *View { return c.view }

func (c *Controller) Edits() *EditBuffer { return c.edits }

func (c *Controller) Columns() []model.Column { return DefaultColumns() }

func (c *Controller) State() SubscriptionState { return c.sub }

func (c *Controller) BufferState() BufferState {
	switch {
	case c.saving:
		return Saving
	case c.edits.Len() > 0:
		return Editing
	default:
		return Idle
	}
}

// Fetch performs one remote read without touching controller state.
func (c *Controller) Fetch(ctx context.Context) FetchResult {
	data, err := c.backend.FetchAccounts(ctx)
	if err != nil {
		return FetchResult{Err: err}
	}
	if data == nil {
		data = []model.Account{}
	}
	return FetchResult{Data: data}
}

// Deliver applies a fetch result. On error the previous collection is kept.
func (c *Controller) Deliver(r FetchResult) {
	if r.Err != nil {
		c.sub = LoadFailed
		c.log.Error().Err(r.Err).Msg("fetch accounts failed")
		c.notify("Error", msgLoadFailed, notify.SeverityError)
		return
	}
	c.sub = Loaded
	c.view.SetRecords(r.Data)
	c.log.Debug().Int("count", len(r.Data)).Msg("accounts loaded")
}

// Load fetches and delivers synchronously.
func (c *Controller) Load(ctx context.Context) error {
	r := c.Fetch(ctx)
	c.Deliver(r)
	if r.Err != nil {
		return &FetchError{Err: r.Err}
	}
	return nil
}

func (c *Controller) RecordEdit(rowID, field string, value any) {
	c.edits.RecordEdit(rowID, field, value)
}

// Save writes the staged edits in one remote call and re-fetches on success.
// On failure the edits stay staged.
func (c *Controller) Save(ctx context.Context) error {
	updates, ok := c.BeginSave()
	if !ok {
		return &SaveError{Err: errors.New("save already in progress")}
	}
	err := c.Commit(ctx, updates)
	if refetch := c.SettleSave(err); refetch {
		// A failed refresh is reported by Deliver; the save itself succeeded.
		_ = c.Load(ctx)
	}
	if err != nil {
		return &SaveError{Err: err}
	}
	return nil
}

// BeginSave materializes the buffer and marks a save in flight.
// It reports false while another save is still in flight.
func (c *Controller) BeginSave() ([]model.AccountUpdate, bool) {
	if c.saving {
		return nil, false
	}
	c.saving = true
	return c.edits.Updates(), true
}

// Commit performs the remote write.
func (c *Controller) Commit(ctx context.Context, updates []model.AccountUpdate) error {
	return c.backend.SaveAccounts(ctx, updates)
}

// SettleSave applies the outcome of a Commit and reports whether the
// backing collection must be re-fetched.
func (c *Controller) SettleSave(err error) bool {
	c.saving = false
	if err != nil {
		c.log.Error().Err(err).Int("updates", c.edits.Len()).Msg("save accounts failed")
		c.notify("Error", msgSaveFailed, notify.SeverityError)
		return false
	}
	c.log.Info().Int("updates", c.edits.Len()).Msg("accounts saved")
	c.notify("Success", msgSaved, notify.SeveritySuccess)
	c.edits.Clear()
	return true
}

func (c *Controller) notify(title, message string, sev notify.Severity) {
	c.notifier.Notify(notify.Notification{Title: title, Message: message, Severity: sev})
}
