package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/fahroediin/resource-tracker/internal/access"
	"github.com/fahroediin/resource-tracker/internal/dto"
	"github.com/fahroediin/resource-tracker/internal/model"
)

func setupTestUserService() (UserService, *memDB, *access.Actor, model.Profile) {
	db := newMemDB()
	repo := newMockRepository(db)
	logger := testLogger()

	admin := model.Profile{ProfileID: uuid.NewString(), FullName: "Ayu Admin", Role: model.RoleAdmin}
	other := model.Profile{ProfileID: uuid.NewString(), FullName: "", Role: model.RoleMember}
	db.profiles = append(db.profiles, admin, other)

	actor := &access.Actor{ProfileID: admin.ProfileID, FullName: admin.FullName, Role: model.RoleAdmin}
	return NewUserService(repo, NewActivityService(repo, logger), logger), db, actor, other
}

func TestUserService_View_AdminFlags(t *testing.T) {
	svc, _, admin, other := setupTestUserService()

	view, err := svc.View(context.Background(), admin)
	if err != nil {
		t.Fatalf("View 应成功: %v", err)
	}
	if len(view.Rows) != 2 || len(view.Roles) != 3 {
		t.Fatalf("列表不符: %+v", view)
	}

	self := view.Rows[0]
	if !self.IsSelf || self.CanEditRole || self.CanDelete {
		t.Errorf("本人行应标记 IsSelf 且不可操作: %+v", self)
	}
	if self.RoleClass != "role-admin" {
		t.Errorf("期望 role-admin，实际=%s", self.RoleClass)
	}

	row := view.Rows[1]
	if row.ID != other.ProfileID || row.IsSelf || !row.CanEditRole || !row.CanDelete {
		t.Errorf("他人行应可操作: %+v", row)
	}
	if row.FullName != "Unknown" || row.Initials != "U" {
		t.Errorf("无姓名时应显示 Unknown/U，实际=%s/%s", row.FullName, row.Initials)
	}
}

func TestUserService_View_HeadSeesButCannotManage(t *testing.T) {
	svc, _, _, _ := setupTestUserService()

	view, err := svc.View(context.Background(), headActor)
	if err != nil {
		t.Fatalf("head 应可查看用户列表: %v", err)
	}
	for _, row := range view.Rows {
		if row.CanEditRole || row.CanDelete {
			t.Fatalf("head 不应管理用户: %+v", row)
		}
	}

	_, err = svc.View(context.Background(), memberActor)
	assertForbidden(t, err)
}

func TestUserService_AssignRole(t *testing.T) {
	svc, db, admin, other := setupTestUserService()

	resp, err := svc.AssignRole(context.Background(), admin, other.ProfileID, &dto.AssignRoleRequest{Role: "head"})
	if err != nil {
		t.Fatalf("AssignRole 应成功: %v", err)
	}
	if resp.Role != "head" || db.profiles[1].Role != model.RoleHead {
		t.Errorf("角色未更新: %+v", resp)
	}

	_, err = svc.AssignRole(context.Background(), admin, admin.ProfileID, &dto.AssignRoleRequest{Role: "member"})
	if !errors.Is(err, ErrSelfAction) {
		t.Errorf("修改本人角色期望 ErrSelfAction，实际: %v", err)
	}

	_, err = svc.AssignRole(context.Background(), headActor, other.ProfileID, &dto.AssignRoleRequest{Role: "admin"})
	assertForbidden(t, err)

	_, err = svc.AssignRole(context.Background(), admin, other.ProfileID, &dto.AssignRoleRequest{Role: "owner"})
	assertValidation(t, err, "role")

	_, err = svc.AssignRole(context.Background(), admin, uuid.NewString(), &dto.AssignRoleRequest{Role: "head"})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("期望 ErrProfileNotFound，实际: %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, db, admin, other := setupTestUserService()

	if err := svc.Delete(context.Background(), admin, admin.ProfileID); !errors.Is(err, ErrSelfAction) {
		t.Errorf("删除本人期望 ErrSelfAction，实际: %v", err)
	}
	assertForbidden(t, svc.Delete(context.Background(), headActor, other.ProfileID))

	if err := svc.Delete(context.Background(), admin, other.ProfileID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if len(db.profiles) != 1 {
		t.Errorf("期望剩余 1 个档案，实际=%d", len(db.profiles))
	}
	if err := svc.Delete(context.Background(), admin, other.ProfileID); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("重复删除期望 ErrProfileNotFound，实际: %v", err)
	}
}
