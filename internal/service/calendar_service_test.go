package service

import (
	"context"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"

	"github.com/fahroediin/resource-tracker/internal/model"
)

func TestCalendarService_ProjectCalendar(t *testing.T) {
	db := newMemDB()
	seedDemo(t, db)
	// 未设置开始日期的项目不出现在日历中
	addProject(t, db, "Undated", model.ProjectPlanning, nil)
	svc := NewCalendarService(newMockRepository(db), testLogger())

	out, err := svc.ProjectCalendar(context.Background())
	if err != nil {
		t.Fatalf("ProjectCalendar 应成功: %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("输出应为合法 iCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 4 {
		t.Fatalf("期望 4 个事件，实际=%d", len(events))
	}

	first := events[0]
	if got := first.GetProperty(ics.ComponentPropertySummary).Value; got != "Core Banking Revamp" {
		t.Errorf("SUMMARY 不符: %s", got)
	}
	if got := first.GetProperty(ics.ComponentPropertyDtStart).Value; got != "20260115" {
		t.Errorf("DTSTART 不符: %s", got)
	}
	// 全天事件的 DTEND 为结束日期次日
	if got := first.GetProperty(ics.ComponentPropertyDtEnd).Value; got != "20260701" {
		t.Errorf("DTEND 不符: %s", got)
	}
	if got := first.GetProperty(ics.ComponentPropertyDescription).Value; !strings.Contains(got, "Rina Wulandari") {
		t.Errorf("DESCRIPTION 应列出成员: %s", got)
	}
}

func TestProjectSpan(t *testing.T) {
	start, end := "2026-03-01", "2026-02-01"
	p := model.Project{StartDate: &start, EndDate: &end}

	s, e, ok := projectSpan(p)
	if !ok || !s.Equal(e) {
		t.Errorf("结束日期早于开始日期时按单日处理: %v %v %v", s, e, ok)
	}

	bad := "03/01/2026"
	if _, _, ok := projectSpan(model.Project{StartDate: &bad}); ok {
		t.Error("无法解析的开始日期应跳过")
	}
	if _, _, ok := projectSpan(model.Project{}); ok {
		t.Error("未设置开始日期应跳过")
	}
}
