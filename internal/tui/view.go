package tui

import (
	"fmt"
	"strings"

	"accounts-cli/internal/listview"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	var b strings.Builder

	title := styleTitle().Render("Accounts")
	if m.source != "" {
		title += " " + styleMuted().Render(m.source)
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.mode == modeHelp {
		b.WriteString(m.helpText)
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("esc to close"))
		return b.String()
	}

	switch {
	case m.ctrl.State() == listview.Unloaded && m.loading:
		b.WriteString(m.spinner.View() + " Loading accounts…\n")
	case m.ctrl.View().Total() == 0 && m.ctrl.State() == listview.Loaded:
		b.WriteString(styleMuted().Render("No accounts.") + "\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.mode == modeSearch || m.mode == modeEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.toast.Message != "" {
		b.WriteString(styleToast(m.toast.Severity).Render(m.toast.Title + ": " + m.toast.Message))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) statusLine() string {
	v := m.ctrl.View()
	parts := []string{
		fmt.Sprintf("Page %d/%d", v.Page(), v.PageCount()),
		fmt.Sprintf("%d accounts", v.Total()),
	}
	if v.Search() != "" {
		parts = append(parts, fmt.Sprintf("%d matching %q", v.FilteredTotal(), v.Search()))
	}
	if by, dir := v.SortedBy(); by != "" {
		parts = append(parts, fmt.Sprintf("sorted by %s %s", by, dir))
	}
	line := styleMuted().Render(strings.Join(parts, " · "))

	if n := m.ctrl.Edits().Len(); n > 0 {
		line += "  " + styleStaged().Render(fmt.Sprintf("%d unsaved", n))
	}
	if m.busy() {
		label := "loading"
		if m.ctrl.BufferState() == listview.Saving {
			label = "saving"
		}
		line += "  " + m.spinner.View() + " " + label
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 20)).Render(line)
}
