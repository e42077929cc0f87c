package listview

import "testing"

func TestEditBuffer_LatestValueWins(t *testing.T) {
	t.Parallel()

	b := NewEditBuffer()
	b.RecordEdit("001", "AnnualRevenue", 100)
	b.RecordEdit("001", "AnnualRevenue", 5000)

	staged, ok := b.Staged("001")
	if !ok {
		t.Fatalf("expected staged entry for 001")
	}
	if len(staged) != 1 || staged["AnnualRevenue"] != 5000 {
		t.Fatalf("expected exactly one staged value (5000); got %#v", staged)
	}
}

func TestEditBuffer_MergesFieldsPerRow(t *testing.T) {
	t.Parallel()

	b := NewEditBuffer()
	b.RecordEdit("002", "Name", "Globex")
	b.RecordEdit("001", "AnnualRevenue", "10")
	b.RecordEdit("002", "Industry", "Energy")

	if b.Len() != 2 {
		t.Fatalf("expected 2 staged rows; got %d", b.Len())
	}
	ups := b.Updates()
	if ups[0].ID != "002" || ups[1].ID != "001" {
		t.Fatalf("expected first-edit order 002,001; got %s,%s", ups[0].ID, ups[1].ID)
	}
	if ups[0].Fields["Name"] != "Globex" || ups[0].Fields["Industry"] != "Energy" {
		t.Fatalf("expected merged fields for 002; got %#v", ups[0].Fields)
	}
	if v, ok := b.Value("001", "AnnualRevenue"); !ok || v != "10" {
		t.Fatalf("expected staged revenue for 001; got %v ok=%v", v, ok)
	}
	if _, ok := b.Value("001", "Name"); ok {
		t.Fatalf("did not expect Name staged for 001")
	}
}

func TestEditBuffer_UpdatesAreCopies(t *testing.T) {
	t.Parallel()

	b := NewEditBuffer()
	b.RecordEdit("001", "Name", "A")
	ups := b.Updates()
	ups[0].Fields["Name"] = "mutated"

	if v, _ := b.Value("001", "Name"); v != "A" {
		t.Fatalf("expected buffer to be unaffected by caller mutation; got %v", v)
	}
}

func TestEditBuffer_Clear(t *testing.T) {
	t.Parallel()

	var b EditBuffer
	b.RecordEdit("001", "Name", "A")
	b.Clear()
	if b.Len() != 0 || len(b.Updates()) != 0 {
		t.Fatalf("expected empty buffer after Clear")
	}
	if _, ok := b.Staged("001"); ok {
		t.Fatalf("expected no staged entry after Clear")
	}
	b.RecordEdit("003", "Name", "C")
	if b.Len() != 1 {
		t.Fatalf("expected buffer usable after Clear")
	}
}
