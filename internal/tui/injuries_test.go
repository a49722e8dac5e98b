package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/forensicdesk/internal/database/repository"
)

func validInjury() map[string]string {
	return map[string]string{
		"name":       "钱七",
		"gender":     "女",
		"age":        "28",
		"height":     "165",
		"weight":     "55",
		"idCard":     "110101199703071234",
		"injuryTime": "2025-07-19 22:10",
		"expert":     "李医生",
	}
}

func TestInjuryCreateStampsAssessmentTime(t *testing.T) {
	ta := newTestApp(t)
	ta.press("1", "a")
	p := listOf[repository.Injury](t, ta)

	p.form.SetValues(validInjury())
	ta.run(t, ta.press("enter"))

	require.Len(t, p.items, 5)
	rec := p.items[0]
	require.Equal(t, 5, rec.ID)
	require.Equal(t, "钱七", rec.Name)
	require.Equal(t, "李医生", rec.Expert)
	require.Equal(t, 28, rec.Age)
	require.Equal(t, "2025-07-20 09:30", rec.AssessmentTime)
	require.Equal(t, "110101************", p.grid.Rows()[0][4])
}

func TestInjuryExaminerMustBeEnabled(t *testing.T) {
	ta := newTestApp(t)
	ta.press("1", "a")
	p := listOf[repository.Injury](t, ta)

	values := validInjury()
	values["expert"] = "孙医生"
	p.form.SetValues(values)
	require.Nil(t, ta.press("enter"))
	require.NotNil(t, p.form)
	require.Equal(t, "鉴定人不存在或已停用，是否为: 李医生", p.form.Field("expert").Err())

	ta.store.Update("6", func(e *repository.Examiner) { e.Status = repository.StatusEnabled })
	ta.run(t, ta.press("enter"))
	require.Nil(t, p.form)
	require.Equal(t, "孙医生", p.items[0].Expert)
}

func TestInjuryTimeRules(t *testing.T) {
	ta := newTestApp(t)
	ta.press("1", "a")
	p := listOf[repository.Injury](t, ta)

	for _, bad := range []string{"2025-07-21 00:00", "2025/07/10 10:00", "昨天"} {
		values := validInjury()
		values["injuryTime"] = bad
		p.form.SetValues(values)
		require.Nil(t, ta.press("enter"), bad)
		require.NotEmpty(t, p.form.Field("injuryTime").Err(), bad)
	}

	values := validInjury()
	values["injuryTime"] = "2025-07-20 23:59"
	values["idCard"] = "1101"
	p.form.SetValues(values)
	ta.press("enter")
	require.Equal(t, "", p.form.Field("injuryTime").Err(), "later today is allowed")
	require.Equal(t, "身份证号必须为18位", p.form.Field("idCard").Err())
}

func TestInjuryPageIsCreateOnly(t *testing.T) {
	ta := newTestApp(t)
	ta.press("1", "e")
	p := listOf[repository.Injury](t, ta)
	require.Nil(t, p.form)
	require.Equal(t, "该页面不支持编辑", ta.status)

	ta.press("s")
	require.False(t, p.loading(), "injuries have no status")
}

func TestEvidenceCreate(t *testing.T) {
	ta := newTestApp(t)
	ta.press("4", "a")
	p := listOf[repository.Evidence](t, ta)

	p.form.SetValues(map[string]string{
		"caseNumber":  "AJ-2025-0719",
		"name":        "手机",
		"category":    "电子数据",
		"location":    "物证室A-03",
		"custodian":   "王医生",
		"collectedAt": "2025-07-19 08:00",
	})
	ta.run(t, ta.press("enter"))
	require.Len(t, p.items, 2)
	require.Equal(t, "手机", p.items[0].Name)
	require.Equal(t, 2, p.items[0].ID)

	ta.press("/", "AJ-2025-0719")
	ta.run(t, ta.press("enter"))
	require.Empty(t, p.items, "a search re-derives from the seed")
}
