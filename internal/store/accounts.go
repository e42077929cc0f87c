package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"accounts-cli/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, name, industry, annual_revenue, created_at_unixms, updated_at_unixms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(r rowScanner) (model.Account, error) {
	var (
		a            model.Account
		revenue      sql.NullString
		created, upd int64
	)
	if err := r.Scan(&a.ID, &a.Name, &a.Industry, &revenue, &created, &upd); err != nil {
		return model.Account{}, err
	}
	if revenue.Valid && strings.TrimSpace(revenue.String) != "" {
		d, err := decimal.NewFromString(revenue.String)
		if err != nil {
			return model.Account{}, fmt.Errorf("account %s: stored revenue %q: %w", a.ID, revenue.String, err)
		}
		a.AnnualRevenue = decimal.NewNullDecimal(d)
	}
	a.CreatedAt = time.UnixMilli(created).UTC()
	a.UpdatedAt = time.UnixMilli(upd).UTC()
	return a, nil
}

func revenueValue(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

// FetchAccounts returns every account in creation order.
func (s Store) FetchAccounts(ctx context.Context) ([]model.Account, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at_unixms ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s Store) GetAccount(ctx context.Context, id string) (model.Account, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Account{}, err
	}
	defer db.Close()

	a, err := scanAccount(db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, strings.TrimSpace(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, notFoundError{kind: "account", id: id}
	}
	return a, err
}

// CreateAccount inserts a new account. ID is generated when empty.
func (s Store) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Industry = strings.TrimSpace(a.Industry)
	if a.Name == "" {
		return model.Account{}, fieldError{accountID: "(new)", field: model.FieldName, reason: "must not be empty"}
	}
	if strings.TrimSpace(a.ID) == "" {
		id, err := newRandomID(accountIDPrefix)
		if err != nil {
			return model.Account{}, err
		}
		a.ID = id
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Account{}, err
	}
	defer db.Close()

	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return model.Account{}, err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `INSERT INTO accounts(`+accountColumns+`) VALUES(?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Industry, revenueValue(a.AnnualRevenue), a.CreatedAt.UnixMilli(), a.UpdatedAt.UnixMilli(),
	); err != nil {
		return model.Account{}, fmt.Errorf("create account: %w", err)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return model.Account{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Account{}, err
	}
	a.CreatedAt = time.UnixMilli(a.CreatedAt.UnixMilli()).UTC()
	a.UpdatedAt = time.UnixMilli(a.UpdatedAt.UnixMilli()).UTC()
	return a, nil
}

// SaveAccounts applies partial updates in one transaction. Any unknown
// account, unknown field or invalid value fails the whole batch.
// Each applied update is recorded as an account.save event sharing one batch id.
func (s Store) SaveAccounts(ctx context.Context, updates []model.AccountUpdate) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	batchID := uuid.NewString()
	nowMs := time.Now().UTC().UnixMilli()

	for _, u := range updates {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			return fieldError{accountID: "(missing)", field: model.FieldID, reason: "update without id"}
		}
		cur, err := scanAccount(tx.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundError{kind: "account", id: id}
		}
		if err != nil {
			return err
		}

		next, err := applyFields(cur, u.Fields)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET name = ?, industry = ?, annual_revenue = ?, updated_at_unixms = ? WHERE id = ?`,
			next.Name, next.Industry, revenueValue(next.AnnualRevenue), nowMs, id,
		); err != nil {
			return err
		}

		payload, err := json.Marshal(u.Fields)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO account_events(event_id, batch_id, type, account_id, ts_unixms, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), batchID, "account.save", id, nowMs, string(payload),
		); err != nil {
			return err
		}
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func applyFields(a model.Account, fields map[string]any) (model.Account, error) {
	for field, v := range fields {
		switch field {
		case model.FieldName:
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				return a, fieldError{accountID: a.ID, field: field, reason: "must be a non-empty string"}
			}
			a.Name = strings.TrimSpace(s)
		case model.FieldIndustry:
			if v == nil {
				a.Industry = ""
				continue
			}
			s, ok := v.(string)
			if !ok {
				return a, fieldError{accountID: a.ID, field: field, reason: "must be a string"}
			}
			a.Industry = strings.TrimSpace(s)
		case model.FieldAnnualRevenue:
			d, err := ParseRevenue(v)
			if err != nil {
				return a, fieldError{accountID: a.ID, field: field, reason: err.Error()}
			}
			a.AnnualRevenue = d
		default:
			return a, fieldError{accountID: a.ID, field: field, reason: "unknown or read-only field"}
		}
	}
	return a, nil
}

// ParseRevenue converts an edited cell value into a nullable amount.
// Empty strings and nil clear the value; "$1,250.50" style input is accepted.
func ParseRevenue(v any) (decimal.NullDecimal, error) {
	switch t := v.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case decimal.Decimal:
		return decimal.NewNullDecimal(t), nil
	case decimal.NullDecimal:
		return t, nil
	case json.Number:
		return ParseRevenue(t.String())
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(t)), nil
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(t))), nil
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(t)), nil
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return decimal.NullDecimal{}, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("not a number: %q", t)
		}
		return decimal.NewNullDecimal(d), nil
	default:
		return decimal.NullDecimal{}, fmt.Errorf("unsupported value type %T", v)
	}
}
