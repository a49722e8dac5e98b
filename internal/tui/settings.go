package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/forensicdesk/internal/config"
	"github.com/jask/forensicdesk/internal/crud"
	"github.com/jask/forensicdesk/internal/keys"
)

const (
	latencyStep = 100 * time.Millisecond
	maxLatency  = 5 * time.Second
)

const (
	settingLatency = iota
	settingPageSize
	settingCount
)

type settingsState struct {
	cursor int
	dirty  bool
}

var restorePrompt = crud.Prompt{
	Title:   "恢复鉴定人名单",
	Content: "名单将恢复为启动时的数据，新增和状态修改都会丢失。",
	OK:      "恢复",
	Cancel:  "取消",
}

func (a *App) openSettings() tea.Cmd {
	a.closePage()
	a.view = viewSettings
	a.settings = settingsState{}
	a.status = ""
	return nil
}

func (a *App) handleSettingsKey(km tea.KeyMsg) tea.Cmd {
	s := &a.settings
	switch a.keys.ActionFor(km.String(), keys.ScopeSettings) {
	case keys.ActionBack:
		return a.goHome()
	case keys.ActionNavigate:
		if isUp(km) {
			s.cursor = (s.cursor - 1 + settingCount) % settingCount
		} else {
			s.cursor = (s.cursor + 1) % settingCount
		}
	case keys.ActionLatency:
		delta := latencyStep
		if km.String() == "-" {
			delta = -latencyStep
		}
		a.cfg.UI.Latency = min(max(a.cfg.UI.Latency+delta, 0), maxLatency)
		s.cursor = settingLatency
		s.dirty = true
	case keys.ActionPageSize:
		a.cfg.UI.PageSize = nextPageSize(a.cfg.UI.PageSize)
		s.cursor = settingPageSize
		s.dirty = true
	case keys.ActionSaveConfig:
		return a.saveConfigCmd(a.cfg)
	case keys.ActionRestoreRoster:
		a.confirm = &confirmation{
			prompt: restorePrompt,
			danger: true,
			answer: func(ok bool) tea.Cmd {
				if !ok {
					a.status = "已取消"
					return nil
				}
				a.roster.ReplaceAll(a.seeds.Examiners)
				a.status = fmt.Sprintf("鉴定人名单已恢复 (%d 人)", len(a.seeds.Examiners))
				a.log.Info("roster restored", zap.Int("examiners", len(a.seeds.Examiners)))
				return nil
			},
		}
	}
	return nil
}

func (a *App) saveConfigCmd(cfg config.Config) tea.Cmd {
	save := a.saveConfig
	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return errMsg{err}
		}
		if err := save(cfg); err != nil {
			return errMsg{fmt.Errorf("save config: %w", err)}
		}
		return configSavedMsg{path: config.Path()}
	}
}

func (a *App) renderSettings() string {
	rows := []struct{ label, value string }{
		{"模拟延迟", a.cfg.UI.Latency.String()},
		{"默认每页条数", fmt.Sprintf("%d", a.cfg.UI.PageSize)},
	}
	var b strings.Builder
	for i, r := range rows {
		prefix := "  "
		if i == a.settings.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix + labelStyle.Render(padRight(r.label, 14)) + valueStyle.Render(r.value) + "\n")
	}
	b.WriteString("\n")
	info := []struct{ label, value string }{
		{"运行模式", a.cfg.Mode},
		{"配置文件", config.Path()},
		{"日志文件", a.cfg.Log.Path},
		{"日志级别", a.cfg.Log.Level},
		{"鉴定人名单", fmt.Sprintf("%d 人，其中启用 %d 人", len(a.roster.List()), len(a.roster.Enabled()))},
	}
	for _, r := range info {
		b.WriteString("  " + labelStyle.Render(padRight(r.label, 14)) + r.value + "\n")
	}
	if a.settings.dirty {
		b.WriteString("\n" + warnStyle.Render("有未保存的修改，按 w 保存"))
	}
	return a.renderSection("系统设置", b.String())
}
