package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/google/uuid"

	"github.com/jask/forensicdesk/internal/database/repository"
	"github.com/jask/forensicdesk/internal/forms"
	"github.com/jask/forensicdesk/internal/keys"
	"github.com/jask/forensicdesk/internal/mask"
)

// newExaminerPage mirrors every create, edit and status change into the
// roster so the injury and evidence forms see it.
func newExaminerPage(a *App) (page, error) {
	def := listDef[repository.Examiner]{
		name:      "examiners",
		title:     "鉴定人管理",
		addTitle:  "新增鉴定人",
		editTitle: "编辑鉴定人",
		seed:      a.seeds.Examiners,
		key:       repository.ExaminerKey,
		filter: func(e repository.Examiner, kw string) bool {
			return strings.Contains(e.Name, kw) ||
				strings.Contains(e.BadgeNumber, kw) ||
				strings.Contains(e.UnitName, kw)
		},
		columns: []table.Column{
			{Title: "序号", Width: 4},
			{Title: "鉴定人姓名", Width: 10},
			{Title: "警号", Width: 7},
			{Title: "单位名称", Width: 14},
			{Title: "联系方式", Width: 13},
			{Title: "地址", Width: 20},
			{Title: "状态", Width: 6},
		},
		row: func(e repository.Examiner, reveal *mask.Reveal) table.Row {
			return table.Row{
				strconv.Itoa(e.ID),
				e.Name,
				e.BadgeNumber,
				e.UnitName,
				reveal.Show(e.Key, e.Contact, mask.Phone),
				e.Address,
				statusLabel(e.Status),
			}
		},
		form: func() *forms.Form { return examinerForm(a.keys) },
		create: func(v map[string]string, items []repository.Examiner) repository.Examiner {
			return repository.Examiner{
				Key:         uuid.NewString(),
				ID:          repository.NextID(items, func(e repository.Examiner) int { return e.ID }),
				Name:        v["name"],
				BadgeNumber: v["badgeNumber"],
				UnitName:    v["unitName"],
				Contact:     v["contact"],
				Address:     v["address"],
				Status:      repository.StatusEnabled,
			}
		},
		values: func(e repository.Examiner) map[string]string {
			return map[string]string{
				"name":        e.Name,
				"badgeNumber": e.BadgeNumber,
				"unitName":    e.UnitName,
				"contact":     e.Contact,
				"address":     e.Address,
			}
		},
		edit: mergeExaminer,
		toggle: func(e repository.Examiner) repository.Examiner {
			e.Status = e.Status.Toggle()
			return e
		},
		created: func(e repository.Examiner) { a.roster.Add(e) },
		edited: func(e repository.Examiner) {
			a.roster.Update(e.Key, func(r *repository.Examiner) {
				r.Name, r.BadgeNumber, r.UnitName = e.Name, e.BadgeNumber, e.UnitName
				r.Contact, r.Address = e.Contact, e.Address
			})
		},
		toggled: func(e repository.Examiner) {
			a.roster.Update(e.Key, func(r *repository.Examiner) { r.Status = e.Status })
		},
		revealable: true,
	}
	return newListPage(a, def)
}

func examinerForm(reg *keys.Registry) *forms.Form {
	return forms.New("", reg,
		forms.Text("name", "鉴定人姓名", "请输入鉴定人姓名", forms.Required("请输入鉴定人姓名")),
		forms.Text("badgeNumber", "警号", "请输入警号", forms.Required("请输入警号")),
		forms.Text("unitName", "单位名称", "请输入单位名称", forms.Required("请输入单位名称")),
		forms.Text("contact", "联系方式", "请输入联系方式", forms.Required("请输入联系方式"),
			forms.Check(isPhone, "联系方式必须为11位数字")),
		forms.Text("address", "地址", "请输入地址"),
	)
}

// mergeExaminer applies the edited fields, keeping key, id and status.
func mergeExaminer(e repository.Examiner, v map[string]string) repository.Examiner {
	e.Name = v["name"]
	e.BadgeNumber = v["badgeNumber"]
	e.UnitName = v["unitName"]
	e.Contact = v["contact"]
	e.Address = v["address"]
	return e
}

func isPhone(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// statusLabel stays unstyled; grid cells are measured as plain text.
func statusLabel(s repository.Status) string {
	if s == repository.StatusEnabled {
		return "启用"
	}
	return "停用"
}
