package store

import (
	"context"
	"encoding/json"
	"time"

	"accounts-cli/internal/model"
)

// ListEvents returns the save history, newest first. limit <= 0 means all.
func (s Store) ListEvents(ctx context.Context, limit int) ([]model.AccountEvent, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, batch_id, type, account_id, ts_unixms, payload_json
	      FROM account_events
	      ORDER BY ts_unixms DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AccountEvent{}
	for rows.Next() {
		var ev model.AccountEvent
		var tsMs int64
		var payloadJSON string
		if err := rows.Scan(&ev.ID, &ev.BatchID, &ev.Type, &ev.AccountID, &tsMs, &payloadJSON); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		_ = json.Unmarshal([]byte(payloadJSON), &ev.Payload)
		out = append(out, ev)
	}
	return out, rows.Err()
}
