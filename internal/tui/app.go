package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"accounts-cli/internal/docs"
	"accounts-cli/internal/listview"
	"accounts-cli/internal/model"
	"accounts-cli/internal/notify"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const toastTTL = 4 * time.Second

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeEdit
	modeHelp
)

// Messages carrying backend results back to the UI goroutine.
type (
	fetchedMsg   struct{ result listview.FetchResult }
	savedMsg     struct{ err error }
	toastDoneMsg struct{ seq int }
)

type appModel struct {
	ctx    context.Context
	ctrl   *listview.Controller
	rec    *notify.Recorder
	source string

	keys    keyMap
	help    help.Model
	table   table.Model
	input   textinput.Model
	spinner spinner.Model

	width  int
	height int

	mode       mode
	col        int
	prevSearch string
	editRowID  string
	editField  string
	helpText   string

	loading bool

	toast    notify.Notification
	toastSeq int
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	rec := &notify.Recorder{}
	ctrl := listview.NewController(opts.Backend,
		listview.WithNotifier(notify.Multi{rec, notify.Log{Logger: opts.Logger}}),
		listview.WithLogger(opts.Logger),
	)

	m := appModel{
		ctx:     ctx,
		ctrl:    ctrl,
		rec:     rec,
		source:  opts.Source,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   textinput.New(),
		spinner: spinner.New(),
		width:   100,
		height:  24,
		loading: true,
	}
	m.spinner.Spinner = spinner.Dot
	m.input.CharLimit = 256
	m.table = table.New(
		table.WithFocused(true),
		table.WithHeight(listview.PageSize+1),
		table.WithStyles(tableStyles()),
	)
	m.syncTable()
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.syncTable()
		if m.mode == modeHelp {
			m.helpText = m.renderHelp()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchedMsg:
		m.loading = false
		m.ctrl.Deliver(msg.result)
		m.syncTable()
		cmd := m.flushNotifications()
		return m, cmd

	case savedMsg:
		refetch := m.ctrl.SettleSave(msg.err)
		m.syncTable()
		cmds := []tea.Cmd{m.flushNotifications()}
		if refetch {
			cmds = append(cmds, m.startFetch())
		}
		return m, tea.Batch(cmds...)

	case toastDoneMsg:
		if msg.seq == m.toastSeq {
			m.toast = notify.Notification{}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	// Cursor blink and friends.
	if m.mode == modeSearch || m.mode == modeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.ctrl.View()
	cols := m.ctrl.Columns()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		m.helpText = m.renderHelp()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if !v.IsLastPage() {
			v.NextPage()
			m.table.SetCursor(0)
			m.syncTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if !v.IsFirstPage() {
			v.PreviousPage()
			m.table.SetCursor(0)
			m.syncTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.syncTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.col < len(cols)-1 {
			m.col++
			m.syncTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.SortAsc):
		return m.sortFocused(listview.Asc)

	case key.Matches(msg, m.keys.SortDesc):
		return m.sortFocused(listview.Desc)

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.prevSearch = v.Search()
		m.input.Prompt = "/ "
		m.input.Placeholder = "account name"
		m.input.SetValue(v.Search())
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		cmd := m.startFetch()
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.ctrl.View()
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		if v.Search() != m.prevSearch {
			v.SetSearch(m.prevSearch)
			m.table.SetCursor(0)
			m.syncTable()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if term := m.input.Value(); term != v.Search() {
		v.SetSearch(term)
		m.table.SetCursor(0)
		m.syncTable()
	}
	return m, cmd
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.input.Blur()
		val := strings.TrimSpace(m.input.Value())
		if val != m.currentValue(m.editRowID, m.editField) {
			m.ctrl.RecordEdit(m.editRowID, m.editField, val)
			m.syncTable()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "?", "q":
		m.mode = modeBrowse
	}
	return m, nil
}

func (m appModel) sortFocused(dir listview.Direction) (tea.Model, tea.Cmd) {
	cols := m.ctrl.Columns()
	if m.col < 0 || m.col >= len(cols) {
		return m, nil
	}
	c := cols[m.col]
	if !c.Sortable {
		cmd := m.showToast(notify.Notification{Title: "Sort", Message: c.Label + " is not sortable", Severity: notify.SeverityInfo})
		return m, cmd
	}
	m.ctrl.View().Sort(c.FieldName, dir)
	m.syncTable()
	return m, nil
}

func (m appModel) beginEdit() (tea.Model, tea.Cmd) {
	cols := m.ctrl.Columns()
	if m.col < 0 || m.col >= len(cols) {
		return m, nil
	}
	c := cols[m.col]
	if !c.Editable {
		cmd := m.showToast(notify.Notification{Title: "Read-only", Message: c.Label + " cannot be edited", Severity: notify.SeverityInfo})
		return m, cmd
	}
	if m.ctrl.BufferState() == listview.Saving {
		cmd := m.showToast(notify.Notification{Title: "Saving", Message: "Wait for the save to finish", Severity: notify.SeverityInfo})
		return m, cmd
	}
	a, ok := m.selectedAccount()
	if !ok {
		return m, nil
	}

	m.mode = modeEdit
	m.editRowID = a.ID
	m.editField = c.FieldName
	m.input.Prompt = c.Label + ": "
	m.input.Placeholder = ""
	m.input.SetValue(m.currentValue(a.ID, c.FieldName))
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m appModel) save() (tea.Model, tea.Cmd) {
	if m.ctrl.Edits().Len() == 0 {
		cmd := m.showToast(notify.Notification{Title: "Save", Message: "Nothing to save", Severity: notify.SeverityInfo})
		return m, cmd
	}
	updates, ok := m.ctrl.BeginSave()
	if !ok {
		cmd := m.showToast(notify.Notification{Title: "Save", Message: "Save already in progress", Severity: notify.SeverityInfo})
		return m, cmd
	}
	ctx, ctrl := m.ctx, m.ctrl
	commit := func() tea.Msg { return savedMsg{err: ctrl.Commit(ctx, updates)} }
	return m, tea.Batch(commit, m.spinner.Tick)
}

func (m *appModel) startFetch() tea.Cmd {
	m.loading = true
	return m.fetchCmd()
}

func (m appModel) fetchCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	fetch := func() tea.Msg { return fetchedMsg{result: ctrl.Fetch(ctx)} }
	return tea.Batch(fetch, m.spinner.Tick)
}

func (m appModel) busy() bool {
	return m.loading || m.ctrl.BufferState() == listview.Saving
}

// flushNotifications moves controller notifications into the toast line.
// Only the most recent one is shown.
func (m *appModel) flushNotifications() tea.Cmd {
	ns := m.rec.All()
	if len(ns) == 0 {
		return nil
	}
	m.rec.Reset()
	return m.showToast(ns[len(ns)-1])
}

func (m *appModel) showToast(n notify.Notification) tea.Cmd {
	m.toast = n
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastDoneMsg{seq: seq} })
}

func (m appModel) selectedAccount() (model.Account, bool) {
	recs := m.ctrl.View().Visible()
	i := m.table.Cursor()
	if i < 0 || i >= len(recs) {
		return model.Account{}, false
	}
	return recs[i], true
}

// currentValue is the staged value of a cell if any, else the record's.
func (m appModel) currentValue(rowID, field string) string {
	if v, ok := m.ctrl.Edits().Value(rowID, field); ok {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}
	a, ok := m.ctrl.View().Record(rowID)
	if !ok {
		return ""
	}
	return a.Field(field)
}

func (m appModel) cellText(a model.Account, c model.Column) string {
	if v, ok := m.ctrl.Edits().Value(a.ID, c.FieldName); ok {
		return listview.FormatValue(v, c) + " *"
	}
	return listview.FormatCell(a, c)
}

func (m appModel) columnWidths(cols []model.Column) []int {
	const currencyWidth = 16
	// Each cell carries one column of padding on both sides.
	avail := m.width - 2*len(cols)
	widths := make([]int, len(cols))
	text := 0
	for i, c := range cols {
		if c.Type == model.ColumnCurrency {
			widths[i] = currencyWidth
			avail -= currencyWidth
			continue
		}
		text++
	}
	if text == 0 {
		return widths
	}
	each := avail / text
	if each < 12 {
		each = 12
	}
	for i, c := range cols {
		if c.Type != model.ColumnCurrency {
			widths[i] = each
		}
	}
	return widths
}

// syncTable rebuilds table columns and rows from the view state.
func (m *appModel) syncTable() {
	v := m.ctrl.View()
	cols := m.ctrl.Columns()
	widths := m.columnWidths(cols)
	by, dir := v.SortedBy()

	tcs := make([]table.Column, len(cols))
	for i, c := range cols {
		title := c.Label
		if c.FieldName == by {
			if dir == listview.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		if i == m.col {
			title = "[" + title + "]"
		}
		tcs[i] = table.Column{Title: ansi.Truncate(title, widths[i], "…"), Width: widths[i]}
	}

	recs := v.Visible()
	rows := make([]table.Row, 0, len(recs))
	for _, a := range recs {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = ansi.Truncate(m.cellText(a, c), widths[i], "…")
		}
		rows = append(rows, row)
	}

	m.table.SetColumns(tcs)
	m.table.SetRows(rows)
	// An empty table leaves the cursor at -1; put it back on a row once
	// there is one.
	switch {
	case len(rows) == 0:
	case m.table.Cursor() < 0:
		m.table.SetCursor(0)
	case m.table.Cursor() >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m appModel) renderHelp() string {
	body, ok := docs.Get("tui")
	if !ok {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return docs.Render(body, docsStyle(), m.width-4)
}
