package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/google/uuid"

	"github.com/jask/forensicdesk/internal/database/repository"
	"github.com/jask/forensicdesk/internal/forms"
	"github.com/jask/forensicdesk/internal/mask"
)

var evidenceCategories = []string{"生物检材", "影像资料", "作案工具", "书证", "电子数据"}

func newEvidencePage(a *App) (page, error) {
	def := listDef[repository.Evidence]{
		name:     "evidence",
		title:    "物证管理",
		addTitle: "新增物证",
		seed:     a.seeds.Evidence,
		key:      repository.EvidenceKey,
		filter: func(e repository.Evidence, kw string) bool {
			return strings.Contains(e.CaseNumber, kw) ||
				strings.Contains(e.Name, kw) ||
				strings.Contains(e.Custodian, kw)
		},
		columns: []table.Column{
			{Title: "序号", Width: 4},
			{Title: "案件编号", Width: 13},
			{Title: "物证名称", Width: 12},
			{Title: "类别", Width: 8},
			{Title: "存放位置", Width: 12},
			{Title: "保管人", Width: 8},
			{Title: "提取时间", Width: 16},
			{Title: "备注", Width: 12},
		},
		row: func(e repository.Evidence, _ *mask.Reveal) table.Row {
			return table.Row{
				strconv.Itoa(e.ID),
				e.CaseNumber,
				e.Name,
				e.Category,
				e.Location,
				e.Custodian,
				e.CollectedAt,
				e.Notes,
			}
		},
		form: func() *forms.Form {
			return forms.New("", a.keys,
				forms.Text("caseNumber", "案件编号", "AJ-YYYY-MMDD", forms.Required("请输入案件编号")),
				forms.Text("name", "物证名称", "请输入物证名称", forms.Required("请输入物证名称")),
				forms.Choice("category", "类别", evidenceCategories, forms.Required("请选择类别")),
				forms.Text("location", "存放位置", "请输入存放位置", forms.Required("请输入存放位置")),
				forms.Text("custodian", "保管人", "请输入保管人", forms.Required("请输入保管人"), a.examinerRule()),
				forms.Text("collectedAt", "提取时间", "YYYY-MM-DD HH:MM", forms.Required("请输入提取时间"),
					forms.Check(a.notAfterToday, "提取时间格式为 YYYY-MM-DD HH:MM，且不能晚于今天")),
				forms.Text("notes", "备注", "请输入备注"),
			)
		},
		create: func(v map[string]string, items []repository.Evidence) repository.Evidence {
			return repository.Evidence{
				Key:         uuid.NewString(),
				ID:          repository.NextID(items, func(e repository.Evidence) int { return e.ID }),
				CaseNumber:  v["caseNumber"],
				Name:        v["name"],
				Category:    v["category"],
				Location:    v["location"],
				Custodian:   v["custodian"],
				CollectedAt: v["collectedAt"],
				Notes:       v["notes"],
			}
		},
	}
	return newListPage(a, def)
}
