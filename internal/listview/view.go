package listview

import (
	"fmt"
	"sort"
	"strings"

	"accounts-cli/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the maximum number of rows in the visible window.
const PageSize = 10

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("invalid sort direction: %q (expected asc|desc)", s)
	}
}

// View is the client-side pagination/search/sort state over the backing collection.
//
// Not safe for concurrent use; all calls are expected on the UI goroutine.
type View struct {
	records []model.Account

	page     int
	search   string
	sortedBy string
	sortDir  Direction

	visible  []model.Account
	filtered int

	coll *collate.Collator
}

func NewView() *View {
	return &View{
		page:    1,
		sortDir: Asc,
		coll:    collate.New(language.English),
	}
}

// SetRecords replaces the backing collection and re-windows.
// The current page is kept.
func (v *View) SetRecords(rs []model.Account) {
	v.records = append([]model.Account(nil), rs...)
	v.apply()
}

// Records returns a copy of the backing collection in its current order.
func (v *View) Records() []model.Account {
	return append([]model.Account(nil), v.records...)
}

func (v *View) Record(id string) (model.Account, bool) {
	for _, r := range v.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.Account{}, false
}

func (v *View) SetSearch(term string) {
	v.search = term
	v.page = 1
	v.apply()
}

func (v *View) Search() string { return v.search }

// Sort reorders the backing collection by the string form of field.
// Ties keep their previous relative order. The current page is not reset.
func (v *View) Sort(field string, dir Direction) {
	if dir != Desc {
		dir = Asc
	}
	sort.SliceStable(v.records, func(i, j int) bool {
		a := v.records[i].Field(field)
		b := v.records[j].Field(field)
		if dir == Asc {
			return v.coll.CompareString(a, b) < 0
		}
		return v.coll.CompareString(b, a) < 0
	})
	v.sortedBy = field
	v.sortDir = dir
	v.apply()
}

func (v *View) SortedBy() (string, Direction) { return v.sortedBy, v.sortDir }

// NextPage and PreviousPage do not guard bounds; callers consult
// IsFirstPage/IsLastPage first. Out-of-range pages show an empty window.
func (v *View) NextPage() {
	v.page++
	v.apply()
}

func (v *View) PreviousPage() {
	v.page--
	v.apply()
}

// SetPage jumps to page n (1-based) without bounds checks.
func (v *View) SetPage(n int) {
	v.page = n
	v.apply()
}

func (v *View) Page() int { return v.page }

func (v *View) IsFirstPage() bool { return v.page == 1 }

// IsLastPage compares against the unfiltered total, so an active search can
// make it disagree with the visible window.
func (v *View) IsLastPage() bool { return v.page*PageSize >= len(v.records) }

// Visible returns a copy of the current window.
func (v *View) Visible() []model.Account {
	return append([]model.Account(nil), v.visible...)
}

func (v *View) Total() int { return len(v.records) }

func (v *View) FilteredTotal() int { return v.filtered }

// PageCount is the number of pages of search results (at least 1).
func (v *View) PageCount() int {
	if v.filtered == 0 {
		return 1
	}
	return (v.filtered + PageSize - 1) / PageSize
}

func (v *View) apply() {
	term := strings.ToLower(v.search)
	matched := make([]model.Account, 0, len(v.records))
	for _, r := range v.records {
		if strings.Contains(strings.ToLower(r.Name), term) {
			matched = append(matched, r)
		}
	}
	v.filtered = len(matched)

	v.visible = nil
	if v.page < 1 {
		return
	}
	start := (v.page - 1) * PageSize
	if start >= len(matched) {
		return
	}
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	v.visible = matched[start:end]
}
