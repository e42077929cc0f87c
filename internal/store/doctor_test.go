package store

import (
	"context"
	"testing"
)

func TestDoctor_CleanWorkspace(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.SeedAccounts(ctx, 3); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rep, err := s.Doctor(ctx)
	if err != nil {
		t.Fatalf("Doctor: %v", err)
	}
	if rep.Accounts != 3 || len(rep.Issues) != 0 || rep.HasErrors() {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestDoctor_UninitializedIsWarning(t *testing.T) {
	rep, err := Store{Dir: t.TempDir()}.Doctor(context.Background())
	if err != nil {
		t.Fatalf("Doctor: %v", err)
	}
	if len(rep.Issues) != 1 || rep.Issues[0].Code != "workspace_not_initialized" || rep.HasErrors() {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestDoctor_FlagsBadRows(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stmts := []string{
		`INSERT INTO accounts(id, name, industry, annual_revenue, created_at_unixms, updated_at_unixms) VALUES('legacy-1', '', '', 'lots', 10, 5)`,
		`INSERT INTO account_events(event_id, batch_id, type, account_id, ts_unixms, payload_json) VALUES('ev-1', 'b-1', 'account.save', 'acc-gone', 1, '{}')`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}
	_ = db.Close()

	rep, err := s.Doctor(ctx)
	if err != nil {
		t.Fatalf("Doctor: %v", err)
	}
	codes := map[string]bool{}
	for _, it := range rep.Issues {
		codes[it.Code] = true
	}
	for _, want := range []string{"account_id_format", "account_name_empty", "account_revenue_invalid", "account_updated_before_created", "event_unknown_account"} {
		if !codes[want] {
			t.Fatalf("missing issue %q in %+v", want, rep.Issues)
		}
	}
	if !rep.HasErrors() {
		t.Fatalf("expected errors")
	}
}
