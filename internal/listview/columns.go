package listview

import (
	"fmt"
	"strings"

	"accounts-cli/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultColumns describes the account table.
func DefaultColumns() []model.Column {
	return []model.Column{
		{Label: "Account Name", FieldName: model.FieldName, Type: model.ColumnText, Sortable: true},
		{Label: "Industry", FieldName: model.FieldIndustry, Type: model.ColumnText, Sortable: true},
		{Label: "Annual Revenue", FieldName: model.FieldAnnualRevenue, Type: model.ColumnCurrency, Editable: true, Sortable: true},
	}
}

// ColumnFor returns the descriptor for an API field name.
func ColumnFor(cols []model.Column, field string) (model.Column, bool) {
	for _, c := range cols {
		if c.FieldName == field {
			return c, true
		}
	}
	return model.Column{}, false
}

// FormatCell renders a record's field for display under c.
func FormatCell(a model.Account, c model.Column) string {
	return FormatValue(a.Field(c.FieldName), c)
}

// FormatValue renders a raw or staged value for display under c.
// Currency values that do not parse as a number are shown as typed.
func FormatValue(v any, c model.Column) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if c.Type != model.ColumnCurrency || s == "" {
		return s
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", ""))
	if err != nil {
		return s
	}
	return "$" + d.StringFixed(2)
}
