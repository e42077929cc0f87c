package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBackup_CopyLoadsAsWorkspace(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.SeedAccounts(ctx, 7); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "snap", "accounts-backup.sqlite")
	got, err := s.Backup(ctx, dest)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if got != dest {
		t.Fatalf("backup path %q want %q", got, dest)
	}

	// A backup is a valid workspace database on its own.
	restoreDir := t.TempDir()
	if err := CopyFile(got, filepath.Join(restoreDir, sqliteFileName)); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	accs, err := Store{Dir: restoreDir}.FetchAccounts(ctx)
	if err != nil {
		t.Fatalf("FetchAccounts(restored): %v", err)
	}
	if len(accs) != 7 {
		t.Fatalf("restored accounts=%d want 7", len(accs))
	}
}

func TestBackup_DefaultsIntoWorkspaceBackupsDir(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	got, err := s.Backup(ctx, "")
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if filepath.Dir(got) != filepath.Join(s.Dir, "backups") {
		t.Fatalf("unexpected default backup path %q", got)
	}
}

func TestBackup_RequiresInitializedWorkspace(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if _, err := s.Backup(context.Background(), ""); err == nil {
		t.Fatalf("expected error for an empty workspace dir")
	}
}
