package store

import (
	"context"
	"database/sql"
	"errors"
)

const metaRevisionKey = "accounts_revision"

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// bumpRevision advances the write counter. Call it inside the writing transaction.
func bumpRevision(ctx context.Context, ex execer) error {
	_, err := ex.ExecContext(ctx, `INSERT INTO meta(k, v) VALUES(?, '1')
		ON CONFLICT(k) DO UPDATE SET v = CAST(CAST(v AS INTEGER) + 1 AS TEXT)`, metaRevisionKey)
	return err
}

// Revision returns a counter that changes with every account write from any
// process sharing the workspace. A store with no writes yet reports "0".
func (s Store) Revision(ctx context.Context) (string, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, metaRevisionKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
