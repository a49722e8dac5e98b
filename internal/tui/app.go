// Package tui is the terminal front-end: a home menu and one page per
// feature, each list page driven by its own crud.Table.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/forensicdesk/internal/config"
	"github.com/jask/forensicdesk/internal/crud"
	"github.com/jask/forensicdesk/internal/database/repository"
	"github.com/jask/forensicdesk/internal/keys"
	"github.com/jask/forensicdesk/internal/roster"
)

const appName = "forensicdesk"

// timeLayout is the display and input format of every timestamp field.
const timeLayout = "2006-01-02 15:04"

// Deps are the collaborators the App is built from. The roster store is
// taken from the context passed to New.
type Deps struct {
	Config config.Config
	Seeds  repository.Seeds
	Keys   *keys.Registry
	Logger *zap.Logger
	// SaveConfig persists settings; config.Save when nil.
	SaveConfig func(config.Config) error
	// Now is the clock for timestamps and date checks; time.Now when nil.
	Now func() time.Time
}

// App ties together views.
type App struct {
	ctx        context.Context
	cfg        config.Config
	seeds      repository.Seeds
	roster     *roster.Store
	keys       *keys.Registry
	log        *zap.Logger
	bridge     *bridge
	saveConfig func(config.Config) error
	now        func() time.Time

	view       appView
	homeCursor int
	page       page
	settings   settingsState
	hotkeys    hotkeysState
	confirm    *confirmation
	status     string

	width  int
	height int
	spin   spinner.Model
	help   help.Model
}

type appView string

const (
	viewHome     appView = "home"
	viewList     appView = "list"
	viewSettings appView = "settings"
	viewHotkeys  appView = "hotkeys"
)

// confirmation is the open confirm modal. answer runs on the UI loop.
type confirmation struct {
	prompt crud.Prompt
	danger bool
	answer func(ok bool) tea.Cmd
}

type menuEntry struct {
	label  string
	action keys.Action
	open   func(a *App) tea.Cmd
}

var homeMenu = []menuEntry{
	{label: "鉴伤管理", action: keys.ActionOpenInjury, open: func(a *App) tea.Cmd { return a.openList(newInjuryPage) }},
	{label: "鉴定人管理", action: keys.ActionOpenExaminer, open: func(a *App) tea.Cmd { return a.openList(newExaminerPage) }},
	{label: "系统设置", action: keys.ActionOpenSettings, open: func(a *App) tea.Cmd { return a.openSettings() }},
	{label: "物证管理", action: keys.ActionOpenEvidence, open: func(a *App) tea.Cmd { return a.openList(newEvidencePage) }},
	{label: "操作热键", action: keys.ActionOpenHotkeys, open: func(a *App) tea.Cmd { return a.openHotkeys() }},
}

// New builds the App. It panics when ctx carries no roster store.
func New(ctx context.Context, d Deps) *App {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := d.Keys
	if reg == nil {
		reg = keys.NewRegistry()
	}
	save := d.SaveConfig
	if save == nil {
		save = config.Save
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &App{
		ctx:        ctx,
		cfg:        d.Config,
		seeds:      d.Seeds,
		roster:     roster.MustFromContext(ctx),
		keys:       reg,
		log:        log.Named("tui"),
		bridge:     newBridge(ctx),
		saveConfig: save,
		now:        now,
		view:       viewHome,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(infoStyle)),
		help:       help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.bridge.wait(), a.spin.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case tableChangedMsg:
		if a.page != nil {
			a.page.sync()
		}
		return a, a.bridge.wait()
	case confirmRequestMsg:
		req := m.req
		if req.ctx.Err() == nil {
			a.confirm = &confirmation{
				prompt: req.prompt,
				danger: true,
				answer: func(ok bool) tea.Cmd {
					req.reply <- ok
					return nil
				},
			}
		}
		return a, a.bridge.wait()
	case opDoneMsg:
		a.opDone(m)
	case configSavedMsg:
		a.settings.dirty = false
		a.status = "配置已保存: " + m.path
	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Warn("ui error", zap.Error(m.error))
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) opDone(m opDoneMsg) {
	switch m.outcome {
	case crud.Applied:
		if m.done != "" {
			a.status = m.done
		}
	case crud.Declined:
		a.status = "已取消"
	case crud.Canceled:
		if m.err != nil && !errors.Is(m.err, crud.ErrClosed) && !errors.Is(m.err, context.Canceled) {
			a.status = "error: " + m.err.Error()
		}
	}
	if a.page != nil {
		a.page.sync()
	}
}

// waitOp turns an operation handle into a command that reports its outcome.
func (a *App) waitOp(done string, op *crud.Op) tea.Cmd {
	return func() tea.Msg {
		outcome, err := op.Wait(a.ctx)
		return opDoneMsg{done: done, outcome: outcome, err: err}
	}
}

func (a *App) handleKey(km tea.KeyMsg) tea.Cmd {
	if a.keys.ActionFor(km.String(), keys.ScopeGlobal) == keys.ActionQuit {
		a.closePage()
		return tea.Quit
	}
	if a.confirm != nil {
		return a.handleConfirmKey(km)
	}
	switch a.view {
	case viewList:
		return a.page.handleKey(km)
	case viewSettings:
		return a.handleSettingsKey(km)
	case viewHotkeys:
		return a.handleHotkeysKey(km)
	default:
		return a.handleHomeKey(km)
	}
}

func (a *App) handleConfirmKey(km tea.KeyMsg) tea.Cmd {
	var ok bool
	switch a.keys.ActionFor(km.String(), keys.ScopeConfirm) {
	case keys.ActionConfirm:
		ok = true
	case keys.ActionCancel:
	default:
		return nil
	}
	c := a.confirm
	a.confirm = nil
	return c.answer(ok)
}

func (a *App) handleHomeKey(km tea.KeyMsg) tea.Cmd {
	action := a.keys.ActionFor(km.String(), keys.ScopeHome)
	switch action {
	case keys.ActionQuit:
		return tea.Quit
	case keys.ActionNavigate:
		if isUp(km) {
			a.homeCursor = (a.homeCursor - 1 + len(homeMenu)) % len(homeMenu)
		} else {
			a.homeCursor = (a.homeCursor + 1) % len(homeMenu)
		}
	case keys.ActionSelect:
		return homeMenu[a.homeCursor].open(a)
	default:
		for i, entry := range homeMenu {
			if entry.action == action {
				a.homeCursor = i
				return entry.open(a)
			}
		}
	}
	return nil
}

func isUp(km tea.KeyMsg) bool {
	s := km.String()
	return s == "up" || s == "k"
}

// openList mounts a fresh list page; any previous page is closed first so
// its pending work is canceled.
func (a *App) openList(build func(a *App) (page, error)) tea.Cmd {
	a.closePage()
	p, err := build(a)
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	a.page = p
	a.view = viewList
	a.status = ""
	a.log.Debug("page opened", zap.String("page", p.title()))
	return nil
}

func (a *App) closePage() {
	if a.page == nil {
		return
	}
	a.log.Debug("page closed", zap.String("page", a.page.title()))
	a.page.close()
	a.page = nil
	a.confirm = nil
}

func (a *App) goHome() tea.Cmd {
	a.closePage()
	a.view = viewHome
	a.status = ""
	return nil
}

func (a *App) View() string {
	var body, crumb string
	scope := keys.ScopeHome
	switch a.view {
	case viewList:
		crumb = a.page.title()
		body = a.page.body()
		scope = a.page.scope()
	case viewSettings:
		crumb = "系统设置"
		body = a.renderSettings()
		scope = keys.ScopeSettings
	case viewHotkeys:
		crumb = "操作热键"
		body = a.renderHotkeys()
		scope = keys.ScopeHotkeys
	default:
		body = a.renderHome()
	}
	body = renderHeader(appName, crumb, a.width) + "\n\n" + body

	statusText := a.status
	if a.page != nil && a.page.loading() {
		statusText = a.spin.View() + " 加载中... " + statusText
	}
	statusLine := a.renderStatus(statusText)

	if a.confirm != nil {
		style := modalStyle
		if a.confirm.danger {
			style = dangerModalStyle
		}
		footer := a.renderFooter(a.keys.HelpBindings(keys.ScopeConfirm))
		return a.composeModal(body, statusLine, footer, renderPrompt(a.confirm.prompt), style)
	}
	if a.view == viewList {
		if popup := a.page.modal(); popup != "" {
			footer := a.renderFooter(a.keys.HelpBindings(keys.ScopeForm))
			return a.composeModal(body, statusLine, footer, popup, modalStyle)
		}
	}
	return a.placeWithFooter(body, statusLine, a.renderFooter(a.keys.HelpBindings(scope)))
}

func renderPrompt(p crud.Prompt) string {
	return titleStyle.Render(p.Title) + "\n\n" + p.Content + "\n\n" +
		helpKeyStyle.Render("y") + " " + p.OK + "   " + helpKeyStyle.Render("n") + " " + p.Cancel
}

func (a *App) renderHome() string {
	lines := make([]string, 0, len(homeMenu))
	for i, entry := range homeMenu {
		label := fmt.Sprintf("%d  %s", i+1, entry.label)
		if i == a.homeCursor {
			lines = append(lines, cursorStyle.Render("> "+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	enabled := len(a.roster.Enabled())
	summary := labelStyle.Render("在册鉴定人 ") + valueStyle.Render(fmt.Sprintf("%d", enabled)) +
		labelStyle.Render(fmt.Sprintf(" / %d", len(a.roster.List())))
	return a.renderSection("法医鉴伤管理系统", strings.Join(lines, "\n")+"\n\n"+summary)
}
