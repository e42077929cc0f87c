package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level     DoctorIssueLevel `json:"level"`
	Code      string           `json:"code"`
	Message   string           `json:"message"`
	AccountID string           `json:"accountId,omitempty"`
	EventID   string           `json:"eventId,omitempty"`
}

type DoctorReport struct {
	Accounts int           `json:"accounts"`
	Events   int           `json:"events"`
	Issues   []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Table renders one issue per row.
func (r DoctorReport) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Issues))
	for _, it := range r.Issues {
		subject := it.AccountID
		if subject == "" {
			subject = it.EventID
		}
		rows = append(rows, []string{string(it.Level), it.Code, subject, it.Message})
	}
	return []string{"Level", "Code", "Subject", "Message"}, rows
}

// Doctor checks the workspace database without modifying it.
// Rows the list view would fail to load are errors; oddities are warnings.
func (s Store) Doctor(ctx context.Context) (DoctorReport, error) {
	rep := DoctorReport{Issues: []DoctorIssue{}}
	if !s.Exists() {
		rep.Issues = append(rep.Issues, DoctorIssue{
			Level:   DoctorIssueLevelWarn,
			Code:    "workspace_not_initialized",
			Message: "no database in " + s.Dir + " (run `accounts init`)",
		})
		return rep, nil
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return rep, err
	}
	defer db.Close()

	var integrity string
	if err := db.QueryRowContext(ctx, `PRAGMA integrity_check;`).Scan(&integrity); err != nil {
		return rep, err
	}
	if integrity != "ok" {
		rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "sqlite_integrity", Message: integrity})
	}

	ids, err := doctorAccounts(ctx, db, &rep)
	if err != nil {
		return rep, err
	}
	if err := doctorEvents(ctx, db, ids, &rep); err != nil {
		return rep, err
	}
	return rep, nil
}

func doctorAccounts(ctx context.Context, db *sql.DB, rep *DoctorReport) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, annual_revenue, created_at_unixms, updated_at_unixms FROM accounts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := map[string]bool{}
	for rows.Next() {
		var (
			id, name         string
			revenue          sql.NullString
			created, updated int64
		)
		if err := rows.Scan(&id, &name, &revenue, &created, &updated); err != nil {
			return nil, err
		}
		rep.Accounts++
		ids[id] = true

		if !IsAccountID(id) {
			rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: "account_id_format", AccountID: id, Message: "id does not look like acc-<suffix>"})
		}
		if strings.TrimSpace(name) == "" {
			rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "account_name_empty", AccountID: id, Message: "account has an empty name"})
		}
		if revenue.Valid && strings.TrimSpace(revenue.String) != "" {
			if _, err := decimal.NewFromString(revenue.String); err != nil {
				rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "account_revenue_invalid", AccountID: id, Message: fmt.Sprintf("stored revenue %q is not a number", revenue.String)})
			}
		}
		if updated < created {
			rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: "account_updated_before_created", AccountID: id, Message: "updated timestamp precedes created timestamp"})
		}
	}
	return ids, rows.Err()
}

func doctorEvents(ctx context.Context, db *sql.DB, ids map[string]bool, rep *DoctorReport) error {
	rows, err := db.QueryContext(ctx, `SELECT event_id, account_id FROM account_events`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, accountID string
		if err := rows.Scan(&eventID, &accountID); err != nil {
			return err
		}
		rep.Events++
		if !ids[accountID] {
			rep.Issues = append(rep.Issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: "event_unknown_account", EventID: eventID, AccountID: accountID, Message: "event references an account that no longer exists"})
		}
	}
	return rows.Err()
}
