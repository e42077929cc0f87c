package cli

import (
	"fmt"
	"sort"
	"strings"

	"accounts-cli/internal/listview"
	"accounts-cli/internal/model"
	"accounts-cli/internal/notify"
	"accounts-cli/internal/store"

	"github.com/spf13/cobra"
)

type listMeta struct {
	Page          int                `json:"page"`
	PageSize      int                `json:"pageSize"`
	PageCount     int                `json:"pageCount"`
	Total         int                `json:"total"`
	FilteredTotal int                `json:"filteredTotal"`
	IsFirstPage   bool               `json:"isFirstPage"`
	IsLastPage    bool               `json:"isLastPage"`
	Search        string             `json:"search,omitempty"`
	SortedBy      string             `json:"sortedBy,omitempty"`
	SortDirection listview.Direction `json:"sortDirection,omitempty"`
	Source        string             `json:"source"`
}

type listPayload struct {
	Data    []model.Account `json:"data"`
	Columns []model.Column  `json:"columns"`
	Meta    listMeta        `json:"meta"`
}

func (p listPayload) Table() ([]string, [][]string) {
	headers := []string{"Id"}
	for _, c := range p.Columns {
		headers = append(headers, c.Label)
	}
	rows := make([][]string, 0, len(p.Data))
	for _, a := range p.Data {
		row := []string{a.ID}
		for _, c := range p.Columns {
			row = append(row, listview.FormatCell(a, c))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

type accountPayload struct {
	Data          model.Account         `json:"data"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

func (p accountPayload) Table() ([]string, [][]string) {
	cols := listview.DefaultColumns()
	headers := []string{"Id"}
	row := []string{p.Data.ID}
	for _, c := range cols {
		headers = append(headers, c.Label)
		row = append(row, listview.FormatCell(p.Data, c))
	}
	return headers, [][]string{row}
}

func newListCmd(app *App) *cobra.Command {
	var (
		page      int
		search    string
		sortField string
		direction string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of accounts (search, sort, paging)",
		Example: strings.TrimSpace(`
accounts list
accounts list --page 2
accounts list --search acme --sort AnnualRevenue --direction desc
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := listview.ParseDirection(direction)
			if err != nil {
				return writeErr(cmd, err)
			}
			if sortField != "" {
				col, ok := listview.ColumnFor(listview.DefaultColumns(), sortField)
				if !ok || !col.Sortable {
					return writeErr(cmd, errUsage("cannot sort by %q (sortable: Name, Industry, AnnualRevenue)", sortField))
				}
			}

			be, source, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, _ := newController(app, be)
			if err := ctrl.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}

			v := ctrl.View()
			v.SetSearch(search)
			if sortField != "" {
				v.Sort(sortField, dir)
			}
			v.SetPage(page)

			by, sdir := v.SortedBy()
			if by == "" {
				sdir = ""
			}
			return writeOut(cmd, app, listPayload{
				Data:    v.Visible(),
				Columns: ctrl.Columns(),
				Meta: listMeta{
					Page:          v.Page(),
					PageSize:      listview.PageSize,
					PageCount:     v.PageCount(),
					Total:         v.Total(),
					FilteredTotal: v.FilteredTotal(),
					IsFirstPage:   v.IsFirstPage(),
					IsLastPage:    v.IsLastPage(),
					Search:        v.Search(),
					SortedBy:      by,
					SortDirection: sdir,
					Source:        source,
				},
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based; not bounds-checked)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring of the account name")
	cmd.Flags().StringVar(&sortField, "sort", "", "Sort field (Name|Industry|AnnualRevenue)")
	cmd.Flags().StringVar(&direction, "direction", "asc", "Sort direction (asc|desc)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <acc-id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			be, _, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, _ := newController(app, be)
			if err := ctrl.Load(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			a, ok := ctrl.View().Record(id)
			if !ok {
				return writeErr(cmd, errNotFound("account", id))
			}
			return writeOut(cmd, app, accountPayload{Data: a})
		},
	}
}

func newCreateCmd(app *App) *cobra.Command {
	var name, industry, revenue string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account in the local workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rev, err := store.ParseRevenue(revenue)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := s.CreateAccount(cmd.Context(), model.Account{
				Name:          name,
				Industry:      industry,
				AnnualRevenue: rev,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info().Str("id", a.ID).Msg("account created")
			return writeOut(cmd, app, accountPayload{Data: a})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry")
	cmd.Flags().StringVar(&revenue, "revenue", "", "Annual revenue (e.g. 125000 or $1,250.50)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSeedCmd(app *App) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo accounts into the local workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return writeErr(cmd, errUsage("--count must be >= 1"))
			}
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			seeded, err := s.SeedAccounts(cmd.Context(), count)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"created": len(seeded)}})
		},
	}

	cmd.Flags().IntVar(&count, "count", 25, "Number of accounts to create")
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "update <acc-id>",
		Short: "Stage field edits for an account and save them",
		Example: strings.TrimSpace(`
accounts update acc-5x2kq7ma --set AnnualRevenue=5000
accounts update acc-5x2kq7ma --set Name="Acme Holdings" --set Industry=Energy
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if len(sets) == 0 {
				return writeErr(cmd, errUsage("nothing to update (use --set Field=Value)"))
			}

			be, _, err := openBackend(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctrl, rec := newController(app, be)
			for _, kv := range sets {
				field, value, ok := strings.Cut(kv, "=")
				field = strings.TrimSpace(field)
				if !ok || field == "" {
					return writeErr(cmd, errUsage("invalid --set %q (expected Field=Value)", kv))
				}
				ctrl.RecordEdit(id, field, value)
			}

			if err := ctrl.Save(cmd.Context()); err != nil {
				return writeErrNotifications(cmd, app, err, rec.All())
			}
			a, ok := ctrl.View().Record(id)
			if !ok {
				return writeErr(cmd, errNotFound("account", id))
			}
			return writeOut(cmd, app, accountPayload{Data: a, Notifications: rec.All()})
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field=Value to stage (repeatable)")
	return cmd
}

type eventsPayload struct {
	Data []model.AccountEvent `json:"data"`
}

func (p eventsPayload) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(p.Data))
	for _, ev := range p.Data {
		keys := make([]string, 0, len(ev.Payload))
		for k := range ev.Payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]string, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s=%v", k, ev.Payload[k]))
		}
		rows = append(rows, []string{ev.TS.Format("2006-01-02 15:04:05"), ev.AccountID, ev.BatchID, strings.Join(fields, " ")})
	}
	return []string{"Time", "Account", "Batch", "Changes"}, rows
}

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the save history of the local workspace (newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := s.ListEvents(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, eventsPayload{Data: evs})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max events (0 = all)")
	return cmd
}
