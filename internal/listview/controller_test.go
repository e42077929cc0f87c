package listview

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"accounts-cli/internal/model"
	"accounts-cli/internal/notify"

	"github.com/rs/zerolog"
)

type fakeBackend struct {
	accounts []model.Account
	fetchErr error
	saveErr  error

	fetches int
	saves   [][]model.AccountUpdate
}

func (f *fakeBackend) FetchAccounts(ctx context.Context) ([]model.Account, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.Account(nil), f.accounts...), nil
}

func (f *fakeBackend) SaveAccounts(ctx context.Context, updates []model.AccountUpdate) error {
	f.saves = append(f.saves, updates)
	return f.saveErr
}

func TestController_LoadDeliversData(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{accounts: numberedAccounts(12)}
	c := NewController(be)
	if c.State() != Unloaded {
		t.Fatalf("expected unloaded before the first fetch; got %s", c.State())
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.State() != Loaded {
		t.Fatalf("expected loaded; got %s", c.State())
	}
	if got := len(c.View().Visible()); got != PageSize {
		t.Fatalf("expected a full first page; got %d", got)
	}
}

func TestController_FetchFailureKeepsCollectionAndNotifies(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{accounts: numberedAccounts(3)}
	var rec notify.Recorder
	var logs bytes.Buffer
	c := NewController(be, WithNotifier(&rec), WithLogger(zerolog.New(&logs)))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	be.fetchErr = errors.New("backend down")
	err := c.Load(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) || !strings.Contains(err.Error(), "backend down") {
		t.Fatalf("expected FetchError wrapping cause; got %v", err)
	}
	if c.State() != LoadFailed {
		t.Fatalf("expected error state; got %s", c.State())
	}
	if got := c.View().Total(); got != 3 {
		t.Fatalf("expected previous collection retained; got %d records", got)
	}
	n, ok := rec.Last()
	if !ok || n.Severity != notify.SeverityError || n.Message != "Error loading accounts" || n.Title != "Error" {
		t.Fatalf("unexpected notification: %#v", n)
	}
	if !strings.Contains(logs.String(), "fetch accounts failed") {
		t.Fatalf("expected fetch failure to be logged; got %q", logs.String())
	}
}

func TestController_SaveFailureKeepsBuffer(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{accounts: numberedAccounts(3), saveErr: errors.New("write rejected")}
	var rec notify.Recorder
	c := NewController(be, WithNotifier(&rec))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := c.View().Records()

	c.RecordEdit("001", model.FieldAnnualRevenue, 5000)
	err := c.Save(context.Background())

	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("expected SaveError; got %v", err)
	}
	staged, ok := c.Edits().Staged("001")
	if !ok || len(staged) != 1 || staged[model.FieldAnnualRevenue] != 5000 {
		t.Fatalf("expected buffer to still hold {001: {AnnualRevenue: 5000}}; got %#v", staged)
	}
	n, _ := rec.Last()
	if n.Severity != notify.SeverityError || n.Message != "Failed to save records" {
		t.Fatalf("expected save error notification; got %#v", n)
	}
	if be.fetches != 1 {
		t.Fatalf("expected no re-fetch after a failed save; got %d fetches", be.fetches)
	}
	after := c.View().Records()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("expected collection unchanged")
	}
	if c.BufferState() != Editing {
		t.Fatalf("expected editing state after failed save; got %s", c.BufferState())
	}
}

func TestController_SaveSuccessClearsAndRefetches(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{accounts: numberedAccounts(3)}
	var rec notify.Recorder
	c := NewController(be, WithNotifier(&rec))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.RecordEdit("001", model.FieldAnnualRevenue, "5000")
	c.RecordEdit("002", model.FieldName, "Renamed")
	if c.BufferState() != Editing {
		t.Fatalf("expected editing state; got %s", c.BufferState())
	}

	be.accounts[1].Name = "Renamed"
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if len(be.saves) != 1 || len(be.saves[0]) != 2 {
		t.Fatalf("expected one write with two updates; got %#v", be.saves)
	}
	if be.saves[0][0].ID != "001" || be.saves[0][0].Fields[model.FieldAnnualRevenue] != "5000" {
		t.Fatalf("unexpected first payload: %#v", be.saves[0][0])
	}
	if c.Edits().Len() != 0 || c.BufferState() != Idle {
		t.Fatalf("expected cleared buffer after success")
	}
	if be.fetches != 2 {
		t.Fatalf("expected save to re-trigger the read; got %d fetches", be.fetches)
	}
	if r, _ := c.View().Record("002"); r.Name != "Renamed" {
		t.Fatalf("expected refreshed collection; got %q", r.Name)
	}
	n, _ := rec.Last()
	if n.Title != "Success" || n.Message != "Records saved successfully" || n.Severity != notify.SeveritySuccess {
		t.Fatalf("unexpected notification: %#v", n)
	}
}

func TestController_SplitSaveGuardsReentry(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{}
	c := NewController(be)
	c.RecordEdit("001", model.FieldName, "A")

	ups, ok := c.BeginSave()
	if !ok || len(ups) != 1 {
		t.Fatalf("expected BeginSave to hand out the payload; ok=%v ups=%v", ok, ups)
	}
	if c.BufferState() != Saving {
		t.Fatalf("expected saving state; got %s", c.BufferState())
	}
	if _, ok := c.BeginSave(); ok {
		t.Fatalf("expected second BeginSave to be refused while saving")
	}
	if err := c.Save(context.Background()); err == nil {
		t.Fatalf("expected Save to fail while another save is in flight")
	}

	if err := c.Commit(context.Background(), ups); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if refetch := c.SettleSave(nil); !refetch {
		t.Fatalf("expected successful settle to request a re-fetch")
	}
	if c.BufferState() != Idle {
		t.Fatalf("expected idle after settle; got %s", c.BufferState())
	}
}

func TestController_RefreshFailureAfterSaveStillSucceeds(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{accounts: numberedAccounts(2)}
	var rec notify.Recorder
	c := NewController(be, WithNotifier(&rec))
	_ = c.Load(context.Background())

	c.RecordEdit("001", model.FieldName, "X")
	be.fetchErr = errors.New("flaky")
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("expected save success despite refresh failure; got %v", err)
	}
	all := rec.All()
	if len(all) != 2 || all[0].Severity != notify.SeveritySuccess || all[1].Message != "Error loading accounts" {
		t.Fatalf("expected success then load error notifications; got %#v", all)
	}
}

func TestDefaultColumns(t *testing.T) {
	t.Parallel()

	cols := DefaultColumns()
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns; got %d", len(cols))
	}
	rev, ok := ColumnFor(cols, model.FieldAnnualRevenue)
	if !ok || !rev.Editable || rev.Type != model.ColumnCurrency {
		t.Fatalf("expected editable currency revenue column; got %#v", rev)
	}
	name, _ := ColumnFor(cols, model.FieldName)
	if name.Editable || !name.Sortable || name.Label != "Account Name" {
		t.Fatalf("unexpected name column: %#v", name)
	}
	if _, ok := ColumnFor(cols, "Phone"); ok {
		t.Fatalf("did not expect a Phone column")
	}
}

func TestController_SaveWithEmptyBufferStillWrites(t *testing.T) {
	t.Parallel()

	be := &fakeBackend{accounts: numberedAccounts(2)}
	var rec notify.Recorder
	c := NewController(be, WithNotifier(&rec))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(be.saves) != 1 || len(be.saves[0]) != 0 {
		t.Fatalf("expected one empty write; got %#v", be.saves)
	}
	if be.fetches != 2 {
		t.Fatalf("expected a re-fetch after the save; got %d fetches", be.fetches)
	}
	if n, ok := rec.Last(); !ok || n.Message != "Records saved successfully" {
		t.Fatalf("expected success notification; got %#v ok=%v", n, ok)
	}
}
