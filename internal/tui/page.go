package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/forensicdesk/internal/config"
	"github.com/jask/forensicdesk/internal/crud"
	"github.com/jask/forensicdesk/internal/forms"
	"github.com/jask/forensicdesk/internal/keys"
	"github.com/jask/forensicdesk/internal/mask"
)

// page is a mounted list page.
type page interface {
	title() string
	scope() string
	handleKey(km tea.KeyMsg) tea.Cmd
	// sync re-reads the table into the grid.
	sync()
	body() string
	// modal is the open form, "" when none.
	modal() string
	loading() bool
	close()
}

// listDef describes one record type's list page.
type listDef[T any] struct {
	name      string
	title     string
	addTitle  string
	editTitle string
	seed      []T
	key       crud.KeyFunc[T]
	filter    crud.FilterFunc[T]
	columns   []table.Column
	row       func(item T, reveal *mask.Reveal) table.Row
	form      func() *forms.Form
	create    func(values map[string]string, items []T) T
	// values fills the edit form; nil means the page is create-only.
	values func(T) map[string]string
	edit   func(item T, values map[string]string) T
	// toggle flips a record's status; nil disables the status key.
	toggle func(T) T
	// The mirror hooks run with the table locked once a change lands.
	created func(T)
	edited  func(T)
	toggled func(T)
	// revealable pages mask a column until the row is revealed.
	revealable bool
}

type listPage[T any] struct {
	app       *App
	def       listDef[T]
	table     *crud.Table[T]
	grid      table.Model
	pager     paginator.Model
	search    textinput.Model
	searching bool
	form      *forms.Form
	editing   string
	reveal    mask.Reveal
	items     []T
	pageSize  int
}

func newListPage[T any](a *App, def listDef[T]) (*listPage[T], error) {
	tbl, err := crud.New(a.ctx, crud.Config[T]{
		Name:      def.name,
		Seed:      def.seed,
		Key:       def.key,
		Filter:    def.filter,
		Latency:   a.cfg.UI.Latency,
		Confirmer: a.bridge,
		Logger:    a.log.Named("crud"),
		OnChange:  a.bridge.notify,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s page: %w", def.name, err)
	}

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "请输入关键词"
	search.Width = 24

	pager := paginator.New()
	pager.Type = paginator.Arabic

	grid := table.New(table.WithColumns(def.columns), table.WithFocused(true))
	grid.SetStyles(gridStyles())

	p := &listPage[T]{
		app:      a,
		def:      def,
		table:    tbl,
		grid:     grid,
		pager:    pager,
		search:   search,
		pageSize: a.cfg.UI.PageSize,
	}
	p.sync()
	return p, nil
}

func (p *listPage[T]) title() string { return p.def.title }

func (p *listPage[T]) scope() string {
	switch {
	case p.form != nil:
		return keys.ScopeForm
	case p.searching:
		return keys.ScopeSearch
	}
	return keys.ScopeList
}

func (p *listPage[T]) loading() bool { return p.table.Loading() }

func (p *listPage[T]) close() { p.table.Close() }

func (p *listPage[T]) sync() {
	p.items = p.table.Items()
	total := len(p.items)
	p.pager.PerPage = max(p.pageSize, 1)
	if total == 0 {
		p.pager.TotalPages = 1
	} else {
		p.pager.SetTotalPages(total)
	}
	if p.pager.Page >= p.pager.TotalPages {
		p.pager.Page = p.pager.TotalPages - 1
	}
	start, end := p.pager.GetSliceBounds(total)
	rows := make([]table.Row, 0, end-start)
	for _, it := range p.items[start:end] {
		rows = append(rows, p.def.row(it, &p.reveal))
	}
	cursor := p.grid.Cursor()
	p.grid.SetRows(rows)
	p.grid.SetHeight(min(p.pageSize, 20) + 2)
	p.grid.SetCursor(max(min(cursor, len(rows)-1), 0))
}

// selected returns the record under the cursor on the current page.
func (p *listPage[T]) selected() (T, bool) {
	var zero T
	start, end := p.pager.GetSliceBounds(len(p.items))
	i := start + p.grid.Cursor()
	if p.grid.Cursor() < 0 || i >= end {
		return zero, false
	}
	return p.items[i], true
}

func (p *listPage[T]) handleKey(km tea.KeyMsg) tea.Cmd {
	if p.form != nil {
		return p.handleFormKey(km)
	}
	if p.searching {
		return p.handleSearchKey(km)
	}
	a := p.app
	switch a.keys.ActionFor(km.String(), keys.ScopeList) {
	case keys.ActionBack:
		return a.goHome()
	case keys.ActionNavigate:
		if isUp(km) {
			p.grid.MoveUp(1)
		} else {
			p.grid.MoveDown(1)
		}
	case keys.ActionNextPage:
		p.pager.NextPage()
		p.sync()
	case keys.ActionPrevPage:
		p.pager.PrevPage()
		p.sync()
	case keys.ActionPageSize:
		p.pageSize = nextPageSize(p.pageSize)
		p.pager.Page = 0
		p.sync()
	case keys.ActionSearch:
		p.searching = true
		p.search.SetValue(p.table.Keyword())
		p.search.CursorEnd()
		return p.search.Focus()
	case keys.ActionReset:
		return p.reset()
	case keys.ActionAdd:
		p.editing = ""
		p.form = p.def.form()
		p.form.Title = p.def.addTitle
	case keys.ActionEdit:
		item, ok := p.selected()
		if !ok {
			return nil
		}
		if p.def.values == nil {
			a.status = "该页面不支持编辑"
			return nil
		}
		p.editing = p.def.key(item)
		p.form = p.def.form()
		p.form.Title = p.def.editTitle
		p.form.SetValues(p.def.values(item))
	case keys.ActionDelete:
		item, ok := p.selected()
		if !ok {
			return nil
		}
		return a.waitOp("删除成功", p.table.Delete(p.def.key(item)))
	case keys.ActionReveal:
		item, ok := p.selected()
		if !ok || !p.def.revealable {
			return nil
		}
		p.reveal.Toggle(p.def.key(item))
		p.sync()
	case keys.ActionToggleStatus:
		item, ok := p.selected()
		if !ok || p.def.toggle == nil {
			return nil
		}
		return a.waitOp("状态已更新", p.table.Mutate(p.toggleFn(p.def.key(item))))
	}
	return nil
}

func (p *listPage[T]) handleSearchKey(km tea.KeyMsg) tea.Cmd {
	switch p.app.keys.ActionFor(km.String(), keys.ScopeSearch) {
	case keys.ActionConfirm:
		p.searching = false
		p.search.Blur()
		keyword := strings.TrimSpace(p.search.Value())
		p.pager.Page = 0
		p.app.log.Debug("search", zap.String("page", p.def.name), zap.String("keyword", keyword))
		return p.app.waitOp("", p.table.Search(keyword))
	case keys.ActionReset:
		p.searching = false
		p.search.Blur()
		return p.reset()
	case keys.ActionCancel:
		p.searching = false
		p.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(km)
	p.table.SetKeyword(p.search.Value())
	return cmd
}

func (p *listPage[T]) reset() tea.Cmd {
	p.search.SetValue("")
	p.pager.Page = 0
	p.reveal.Clear()
	return p.app.waitOp("", p.table.Reset())
}

func (p *listPage[T]) handleFormKey(km tea.KeyMsg) tea.Cmd {
	ev, cmd := p.form.Update(km)
	switch ev {
	case forms.EventCancel:
		p.form = nil
		p.editing = ""
	case forms.EventSubmit:
		return p.submit()
	}
	return cmd
}

func (p *listPage[T]) submit() tea.Cmd {
	values := p.form.Values()
	key := p.editing
	p.form = nil
	p.editing = ""
	def := p.def

	if key == "" {
		return p.app.waitOp("新增成功", p.table.Mutate(func(items []T) []T {
			rec := def.create(values, items)
			if def.created != nil {
				def.created(rec)
			}
			return append([]T{rec}, items...)
		}))
	}
	return p.app.waitOp("修改成功", p.table.Mutate(func(items []T) []T {
		var last T
		found := false
		for i, it := range items {
			if def.key(it) == key {
				items[i] = def.edit(it, values)
				last, found = items[i], true
			}
		}
		if found && def.edited != nil {
			def.edited(last)
		}
		return items
	}))
}

func (p *listPage[T]) toggleFn(key string) func([]T) []T {
	def := p.def
	return func(items []T) []T {
		i := slices.IndexFunc(items, func(it T) bool { return def.key(it) == key })
		if i < 0 {
			return items
		}
		items[i] = def.toggle(items[i])
		if def.toggled != nil {
			def.toggled(items[i])
		}
		return items
	}
}

func (p *listPage[T]) modal() string {
	if p.form == nil {
		return ""
	}
	return p.form.View()
}

func (p *listPage[T]) body() string {
	snap := p.table.Snapshot()

	search := p.search.View()
	if !p.searching {
		kw := snap.Keyword
		if kw == "" {
			kw = mutedStyle.Render("请输入关键词")
		}
		search = kw
	}
	bar := labelStyle.Render("关键词搜索: ") + search
	if p.searching {
		bar = focusStyle.Render("关键词搜索: ") + search
	}

	var b strings.Builder
	b.WriteString(bar)
	b.WriteString("\n\n")
	if len(p.items) == 0 {
		b.WriteString(mutedStyle.Render("暂无数据"))
	} else {
		b.WriteString(p.grid.View())
	}
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("共 %d 条记录   ", len(snap.Items)))
	b.WriteString(labelStyle.Render("第 "))
	b.WriteString(p.pager.View())
	b.WriteString(labelStyle.Render(fmt.Sprintf(" 页   %d 条/页", p.pageSize)))
	return p.app.renderSection(p.def.title, b.String())
}

func nextPageSize(cur int) int {
	i := slices.Index(config.PageSizes, cur)
	return config.PageSizes[(i+1)%len(config.PageSizes)]
}
