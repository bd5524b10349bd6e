package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fahroediin/resource-tracker/internal/access"
	"github.com/fahroediin/resource-tracker/internal/model"
	pkgerrors "github.com/fahroediin/resource-tracker/pkg/errors"
)

// ── 测试辅助 ──

var (
	adminActor  = &access.Actor{ProfileID: uuid.NewString(), FullName: "Admin", Role: model.RoleAdmin}
	headActor   = &access.Actor{ProfileID: uuid.NewString(), FullName: "Head", Role: model.RoleHead}
	memberActor = &access.Actor{ProfileID: uuid.NewString(), FullName: "Viewer", Role: model.RoleMember}
)

func addMember(t *testing.T, db *memDB, name, role string, status model.MemberStatus) model.Member {
	t.Helper()
	m := model.Member{Name: name, Role: role, Status: status}
	if err := (&mockMemberRepo{db: db}).Create(context.Background(), &m); err != nil {
		t.Fatalf("准备成员数据失败: %v", err)
	}
	return m
}

func addProject(t *testing.T, db *memDB, name string, status model.ProjectStatus, allocs map[string]int, order ...string) model.Project {
	t.Helper()
	p := model.Project{Name: name, Priority: model.PriorityMedium, Status: status}
	if err := (&mockProjectRepo{db: db}).Create(context.Background(), &p); err != nil {
		t.Fatalf("准备项目数据失败: %v", err)
	}
	rows := make([]model.Assignment, 0, len(order))
	for _, memberID := range order {
		rows = append(rows, model.Assignment{ProjectID: p.ProjectID, MemberID: memberID, Allocation: allocs[memberID]})
	}
	if err := (&mockAssignmentRepo{db: db}).BatchCreate(context.Background(), rows); err != nil {
		t.Fatalf("准备分配数据失败: %v", err)
	}
	return p
}

func seedDemo(t *testing.T, db *memDB) {
	t.Helper()
	svc := NewSeedService(newMockRepository(db), testLogger())
	if _, err := svc.SeedIfEmpty(context.Background()); err != nil {
		t.Fatalf("写入演示数据失败: %v", err)
	}
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("期望 ErrForbidden，实际: %v", err)
	}
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *pkgerrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("期望 ValidationError，实际: %v", err)
	}
	if ve.Field != field {
		t.Errorf("期望校验字段=%s，实际=%s", field, ve.Field)
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }
