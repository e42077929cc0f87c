package listview

import (
	"testing"

	"accounts-cli/internal/model"

	"github.com/shopspring/decimal"
)

func TestFormatValue(t *testing.T) {
	text := model.Column{Type: model.ColumnText}
	money := model.Column{Type: model.ColumnCurrency}

	cases := []struct {
		name string
		v    any
		col  model.Column
		want string
	}{
		{name: "nil", v: nil, col: money, want: ""},
		{name: "text passthrough", v: " Energy ", col: text, want: "Energy"},
		{name: "currency from string", v: "5000", col: money, want: "$5000.00"},
		{name: "currency with symbol and commas", v: "$1,250.5", col: money, want: "$1250.50"},
		{name: "currency unparseable shown as typed", v: "lots", col: money, want: "lots"},
		{name: "currency empty", v: "", col: money, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatValue(tc.v, tc.col); got != tc.want {
				t.Fatalf("FormatValue(%v) = %q, want %q", tc.v, got, tc.want)
			}
		})
	}
}

func TestFormatCell_NullRevenueIsBlank(t *testing.T) {
	cols := DefaultColumns()
	rev, _ := ColumnFor(cols, model.FieldAnnualRevenue)

	a := model.Account{ID: "acc-1", Name: "Acme"}
	if got := FormatCell(a, rev); got != "" {
		t.Fatalf("expected blank revenue, got %q", got)
	}
	a.AnnualRevenue = decimal.NewNullDecimal(decimal.NewFromInt(125000))
	if got := FormatCell(a, rev); got != "$125000.00" {
		t.Fatalf("unexpected revenue cell %q", got)
	}
}
