package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field API names, as used by column descriptors and update payloads.
const (
	FieldID            = "Id"
	FieldName          = "Name"
	FieldIndustry      = "Industry"
	FieldAnnualRevenue = "AnnualRevenue"
)

type Account struct {
	ID            string              `json:"Id"`
	Name          string              `json:"Name"`
	Industry      string              `json:"Industry,omitempty"`
	AnnualRevenue decimal.NullDecimal `json:"AnnualRevenue"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Field returns the string form of a field by API name.
// Unknown fields and null values yield "".
func (a Account) Field(name string) string {
	switch name {
	case FieldID:
		return a.ID
	case FieldName:
		return a.Name
	case FieldIndustry:
		return a.Industry
	case FieldAnnualRevenue:
		if !a.AnnualRevenue.Valid {
			return ""
		}
		return a.AnnualRevenue.Decimal.String()
	default:
		return ""
	}
}

// AccountUpdate is a partial record: the identifier plus the changed fields.
type AccountUpdate struct {
	ID     string         `json:"Id"`
	Fields map[string]any `json:"fields"`
}

type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnCurrency ColumnType = "currency"
)

// Column describes one table column for the host widget.
type Column struct {
	Label     string     `json:"label"`
	FieldName string     `json:"fieldName"`
	Type      ColumnType `json:"type"`
	Editable  bool       `json:"editable"`
	Sortable  bool       `json:"sortable"`
}

// AccountEvent is one entry of the save history.
type AccountEvent struct {
	ID        string         `json:"id"`
	BatchID   string         `json:"batchId"`
	Type      string         `json:"type"`
	AccountID string         `json:"accountId"`
	TS        time.Time      `json:"ts"`
	Payload   map[string]any `json:"payload,omitempty"`
}
