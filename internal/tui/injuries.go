package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/google/uuid"

	"github.com/jask/forensicdesk/internal/database/repository"
	"github.com/jask/forensicdesk/internal/forms"
	"github.com/jask/forensicdesk/internal/mask"
)

// newInjuryPage is create-only; records are never edited once filed.
func newInjuryPage(a *App) (page, error) {
	def := listDef[repository.Injury]{
		name:     "injuries",
		title:    "鉴伤管理",
		addTitle: "新增被鉴伤人",
		seed:     a.seeds.Injuries,
		key:      repository.InjuryKey,
		filter: func(i repository.Injury, kw string) bool {
			return strings.Contains(i.Name, kw) ||
				strings.Contains(i.Expert, kw) ||
				strings.Contains(i.IDCard, kw)
		},
		columns: []table.Column{
			{Title: "序号", Width: 4},
			{Title: "被鉴伤人姓名", Width: 12},
			{Title: "鉴定人姓名", Width: 10},
			{Title: "性别", Width: 4},
			{Title: "身份证号", Width: 18},
			{Title: "受伤时间", Width: 16},
			{Title: "鉴伤时间", Width: 16},
		},
		row: func(i repository.Injury, reveal *mask.Reveal) table.Row {
			return table.Row{
				strconv.Itoa(i.ID),
				i.Name,
				i.Expert,
				i.Gender,
				reveal.Show(i.Key, i.IDCard, mask.IDCard),
				i.InjuryTime,
				i.AssessmentTime,
			}
		},
		form: func() *forms.Form { return a.injuryForm() },
		create: func(v map[string]string, items []repository.Injury) repository.Injury {
			return repository.Injury{
				Key:             uuid.NewString(),
				ID:              repository.NextID(items, func(i repository.Injury) int { return i.ID }),
				Name:            v["name"],
				Expert:          v["expert"],
				Gender:          v["gender"],
				Age:             atoi(v["age"]),
				Height:          atoi(v["height"]),
				Weight:          atoi(v["weight"]),
				IDCard:          v["idCard"],
				Address:         v["address"],
				InjuryTime:      v["injuryTime"],
				AssessmentTime:  a.now().Format(timeLayout),
				CaseDescription: v["caseDescription"],
				ClientUnit:      v["clientUnit"],
			}
		},
		revealable: true,
	}
	return newListPage(a, def)
}

func (a *App) injuryForm() *forms.Form {
	return forms.New("", a.keys,
		forms.Text("name", "姓名", "请输入姓名", forms.Required("请输入姓名")),
		forms.Choice("gender", "性别", []string{"男", "女"}, forms.Required("请输入性别")),
		forms.Text("age", "年龄", "请输入年龄", forms.Required("请输入年龄"), forms.Numeric("年龄必须为数字")),
		forms.Text("height", "身高(cm)", "请输入身高", forms.Required("请输入身高"), forms.Numeric("身高必须为数字")),
		forms.Text("weight", "体重(kg)", "请输入体重", forms.Required("请输入体重"), forms.Numeric("体重必须为数字")),
		forms.Text("idCard", "身份证号", "请输入身份证号", forms.Required("请输入身份证号"), forms.Length(18, "身份证号必须为18位")),
		forms.Text("address", "户籍地址", "请输入户籍地址"),
		forms.Text("injuryTime", "受伤时间", "YYYY-MM-DD HH:MM", forms.Required("请选择受伤时间"),
			forms.Check(a.notAfterToday, "受伤时间格式为 YYYY-MM-DD HH:MM，且不能晚于今天")),
		forms.Text("expert", "鉴定人", "请选择鉴定人", forms.Required("请选择鉴定人"), a.examinerRule()),
		forms.Text("caseDescription", "案件描述", "请输入案件描述"),
		forms.Text("clientUnit", "委托单位", "请输入委托单位"),
	)
}

// examinerRule accepts only the name of an enabled examiner and suggests the
// closest one otherwise.
func (a *App) examinerRule() forms.Rule {
	return forms.Func(func(name string) string {
		if _, ok := a.roster.Lookup(name); ok {
			return ""
		}
		msg := "鉴定人不存在或已停用"
		if s := a.roster.Suggest(name, 1); len(s) > 0 {
			msg += "，是否为: " + s[0].Name
		}
		return msg
	})
}

// notAfterToday parses a timeLayout value and rejects anything past the end
// of the current day.
func (a *App) notAfterToday(v string) bool {
	now := a.now()
	t, err := time.ParseInLocation(timeLayout, v, now.Location())
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	endOfDay := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return t.Before(endOfDay)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
