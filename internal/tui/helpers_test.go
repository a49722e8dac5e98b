package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/forensicdesk/internal/config"
	"github.com/jask/forensicdesk/internal/database/repository"
	"github.com/jask/forensicdesk/internal/roster"
)

var fixedNow = time.Date(2025, 7, 20, 9, 30, 0, 0, time.Local)

func testSeeds() repository.Seeds {
	return repository.Seeds{
		Examiners: []repository.Examiner{
			{Key: "1", ID: 1, Name: "管理员", BadgeNumber: "00001", UnitName: "法医鉴定中心", Contact: "13800138000", Address: "XX市公安局A栋501室", Status: repository.StatusEnabled},
			{Key: "2", ID: 2, Name: "老师a", BadgeNumber: "00002", UnitName: "法医鉴定中心", Contact: "13800138001", Address: "XX市公安局A栋501室", Status: repository.StatusEnabled},
			{Key: "3", ID: 3, Name: "李医生", BadgeNumber: "00003", UnitName: "法医鉴定中心", Contact: "13800138002", Status: repository.StatusEnabled},
			{Key: "4", ID: 4, Name: "王医生", BadgeNumber: "00004", UnitName: "法医鉴定中心", Contact: "13800138003", Status: repository.StatusEnabled},
			{Key: "5", ID: 5, Name: "赵医生", BadgeNumber: "00005", UnitName: "司法鉴定所", Contact: "13800138004", Status: repository.StatusEnabled},
			{Key: "6", ID: 6, Name: "孙医生", BadgeNumber: "00006", UnitName: "司法鉴定所", Contact: "13800138005", Status: repository.StatusDisabled},
		},
		Injuries: []repository.Injury{
			{Key: "1", ID: 1, Name: "张三", Expert: "李医生", Gender: "男", IDCard: "110101199003071234", InjuryTime: "2025-07-10 10:00", AssessmentTime: "2025-07-11 14:30"},
			{Key: "2", ID: 2, Name: "李四", Expert: "王医生", Gender: "女", IDCard: "220202198805154321", InjuryTime: "2025-07-12 09:00", AssessmentTime: "2025-07-12 11:00"},
			{Key: "3", ID: 3, Name: "王五", Expert: "赵医生", Gender: "男", IDCard: "33030319920820123X", InjuryTime: "2025-07-13 11:00", AssessmentTime: "2025-07-13 15:00"},
			{Key: "4", ID: 4, Name: "赵六", Expert: "孙医生", Gender: "女", IDCard: "44040419851125432Y", InjuryTime: "2025-07-14 14:00", AssessmentTime: "2025-07-14 16:00"},
		},
		Evidence: []repository.Evidence{
			{Key: "1", ID: 1, CaseNumber: "AJ-2025-0710", Name: "带血衣物", Category: "生物检材", Location: "物证室A-01", Custodian: "李医生", CollectedAt: "2025-07-10 12:00"},
		},
	}
}

type testApp struct {
	*App
	store *roster.Store
	saved []config.Config
}

func newTestApp(t *testing.T, mutate ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := config.Config{
		Mode: config.ModeProduction,
		UI:   config.UIConfig{Latency: 0, PageSize: 50},
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	seeds := testSeeds()
	store := roster.New(seeds.Examiners, nil)
	ctx, cancel := context.WithCancel(roster.WithStore(context.Background(), store))

	ta := &testApp{store: store}
	ta.App = New(ctx, Deps{
		Config: cfg,
		Seeds:  seeds,
		Now:    func() time.Time { return fixedNow },
		SaveConfig: func(c config.Config) error {
			ta.saved = append(ta.saved, c)
			return nil
		},
	})
	t.Cleanup(func() {
		ta.closePage()
		cancel()
	})
	return ta
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to the app and returns the command of the last one.
func (ta *testApp) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = ta.Update(keyMsg(k))
	}
	return cmd
}

// run executes cmd on the test goroutine and feeds its message back.
func (ta *testApp) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		ta.Update(msg)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not finish")
		return nil
	}
}

// awaitConfirm pumps bridge messages until a delete confirmation is shown.
func (ta *testApp) awaitConfirm(t *testing.T) {
	t.Helper()
	for ta.confirm == nil {
		msg := ta.run(t, ta.bridge.wait())
		require.NotNil(t, msg)
	}
}

func listOf[T any](t *testing.T, ta *testApp) *listPage[T] {
	t.Helper()
	p, ok := ta.page.(*listPage[T])
	require.True(t, ok, "active page is %T", ta.page)
	return p
}

func (p *listPage[T]) settle() {
	p.table.Settle()
	p.sync()
}
