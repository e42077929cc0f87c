package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backup writes a consistent copy of the workspace database to dest and
// returns the written path. An empty dest or a directory gets a timestamped
// file name.
func (s Store) Backup(ctx context.Context, dest string) (string, error) {
	if !s.Exists() {
		return "", errors.New("backup: workspace not initialized")
	}
	name := "accounts-" + time.Now().UTC().Format("20060102-150405") + ".sqlite"
	dest = strings.TrimSpace(dest)
	switch {
	case dest == "":
		dest = filepath.Join(s.Dir, "backups", name)
	default:
		if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
			dest = filepath.Join(dest, name)
		}
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	// Fold the WAL into the main file so a plain copy is complete.
	_, err = db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE);`)
	_ = db.Close()
	if err != nil {
		return "", err
	}

	if err := CopyFile(s.sqlitePath(), dest); err != nil {
		return "", err
	}
	return dest, nil
}
