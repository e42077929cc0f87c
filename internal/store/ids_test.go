package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_AccountIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := newRandomID(accountIDPrefix)
		if err != nil {
			t.Fatalf("newRandomID: %v", err)
		}
		suffix := strings.TrimPrefix(id, "acc-")
		if suffix == id || len(suffix) != 8 {
			t.Fatalf("unexpected id %q", id)
		}
		if strings.ToLower(suffix) != suffix {
			t.Fatalf("expected lowercase suffix, got %q", id)
		}
		if !IsAccountID(id) {
			t.Fatalf("IsAccountID(%q) = false", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestIsAccountID(t *testing.T) {
	cases := map[string]bool{
		"acc-5x2kq7ma":   true,
		" acc-5x2kq7ma ": true,
		"acc-":           false,
		"acc":            false,
		"list":           false,
		"item-abc":       false,
	}
	for in, want := range cases {
		if got := IsAccountID(in); got != want {
			t.Fatalf("IsAccountID(%q) = %v, want %v", in, got, want)
		}
	}
}
