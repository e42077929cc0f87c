package listview

import "accounts-cli/internal/model"

// EditBuffer stages uncommitted cell edits keyed by record id.
//
// Later edits of the same field overwrite earlier ones; fields and values are
// not validated here (the backend does that on save).
type EditBuffer struct {
	order   []string
	entries map[string]map[string]any
}

func NewEditBuffer() *EditBuffer {
	return &EditBuffer{entries: map[string]map[string]any{}}
}

func (b *EditBuffer) RecordEdit(rowID, field string, value any) {
	if b.entries == nil {
		b.entries = map[string]map[string]any{}
	}
	e, ok := b.entries[rowID]
	if !ok {
		e = map[string]any{}
		b.entries[rowID] = e
		b.order = append(b.order, rowID)
	}
	e[field] = value
}

// Staged returns a copy of the staged fields for rowID.
func (b *EditBuffer) Staged(rowID string) (map[string]any, bool) {
	e, ok := b.entries[rowID]
	if !ok {
		return nil, false
	}
	return copyFields(e), true
}

func (b *EditBuffer) Value(rowID, field string) (any, bool) {
	e, ok := b.entries[rowID]
	if !ok {
		return nil, false
	}
	v, ok := e[field]
	return v, ok
}

// Updates materializes the buffer in first-edit order.
func (b *EditBuffer) Updates() []model.AccountUpdate {
	out := make([]model.AccountUpdate, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, model.AccountUpdate{ID: id, Fields: copyFields(b.entries[id])})
	}
	return out
}

func (b *EditBuffer) Len() int { return len(b.order) }

func (b *EditBuffer) Clear() {
	b.order = nil
	b.entries = map[string]map[string]any{}
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
