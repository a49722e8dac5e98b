package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/forensicdesk/internal/keys"
)

var scopeTitles = map[string]string{
	keys.ScopeGlobal:   "全局",
	keys.ScopeHome:     "首页",
	keys.ScopeList:     "列表页",
	keys.ScopeSearch:   "搜索框",
	keys.ScopeForm:     "表单",
	keys.ScopeConfirm:  "确认框",
	keys.ScopeSettings: "系统设置",
	keys.ScopeHotkeys:  "操作热键",
}

type hotkeysState struct {
	offset int
}

func (a *App) openHotkeys() tea.Cmd {
	a.closePage()
	a.view = viewHotkeys
	a.hotkeys = hotkeysState{}
	a.status = ""
	return nil
}

func (a *App) handleHotkeysKey(km tea.KeyMsg) tea.Cmd {
	switch a.keys.ActionFor(km.String(), keys.ScopeHotkeys) {
	case keys.ActionBack:
		return a.goHome()
	case keys.ActionNavigate:
		lines := len(a.hotkeyLines())
		if isUp(km) {
			a.hotkeys.offset = max(a.hotkeys.offset-1, 0)
		} else {
			a.hotkeys.offset = min(a.hotkeys.offset+1, max(lines-1, 0))
		}
	}
	return nil
}

// hotkeyLines lists every binding grouped by scope in registration order.
func (a *App) hotkeyLines() []string {
	var lines []string
	for _, scope := range a.keys.Scopes() {
		title := scopeTitles[scope]
		if title == "" {
			title = scope
		}
		lines = append(lines, focusStyle.Render(title))
		for _, b := range a.keys.BindingsForScope(scope) {
			lines = append(lines, "  "+helpKeyStyle.Render(padRight(strings.Join(b.Keys, " / "), 22))+helpDescStyle.Render(b.Help))
		}
		lines = append(lines, "")
	}
	return lines
}

func (a *App) renderHotkeys() string {
	lines := a.hotkeyLines()
	visible := len(lines)
	if a.height > 0 {
		visible = max(a.height-10, 5)
	}
	start := min(a.hotkeys.offset, max(len(lines)-1, 0))
	end := min(start+visible, len(lines))
	return a.renderSection("操作热键", strings.Join(lines[start:end], "\n"))
}
