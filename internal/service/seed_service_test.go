package service

import (
	"context"
	"testing"

	pkgerrors "github.com/fahroediin/resource-tracker/pkg/errors"
)

func TestSeedService_SeedIfEmpty(t *testing.T) {
	db := newMemDB()
	svc := NewSeedService(newMockRepository(db), testLogger())

	seeded, err := svc.SeedIfEmpty(context.Background())
	if err != nil || !seeded {
		t.Fatalf("空库应写入演示数据: seeded=%v err=%v", seeded, err)
	}
	if len(db.members) != 7 || len(db.projects) != 4 || len(db.assignments) != 10 || len(db.skills) != 70 {
		t.Fatalf("演示数据数量不符: %d/%d/%d/%d", len(db.members), len(db.projects), len(db.assignments), len(db.skills))
	}

	// 展示顺序与数据集一致
	if db.members[0].Name != "Rina Wulandari" || db.members[6].Name != "Maya Sari" {
		t.Errorf("成员顺序不符: %s ... %s", db.members[0].Name, db.members[6].Name)
	}
	for i := 1; i < len(db.members); i++ {
		if !db.members[i].CreatedAt.After(db.members[i-1].CreatedAt) {
			t.Fatalf("成员 CreatedAt 应严格递增")
		}
	}
	if *db.projects[2].StartDate != "2026-03-01" || *db.projects[2].EndDate != "2026-08-30" {
		t.Errorf("项目日期不符: %+v", db.projects[2])
	}

	// 第 2 条分配：Core Banking Revamp / Budi Santoso / 80
	a := db.assignments[1]
	if a.ProjectID != db.projects[0].ProjectID || a.MemberID != db.members[1].MemberID || a.Allocation != 80 {
		t.Errorf("分配关联不符: %+v", a)
	}

	seeded, err = svc.SeedIfEmpty(context.Background())
	if err != nil || seeded {
		t.Errorf("非空库不应重复写入: seeded=%v err=%v", seeded, err)
	}
	if len(db.members) != 7 {
		t.Errorf("重复调用后成员数应保持 7，实际=%d", len(db.members))
	}
}

func TestSeedService_StoreError(t *testing.T) {
	db := newMemDB()
	db.fail["member.count"] = errMockStore
	svc := NewSeedService(newMockRepository(db), testLogger())

	if _, err := svc.SeedIfEmpty(context.Background()); !pkgerrors.IsStore(err) {
		t.Errorf("期望 StoreError，实际: %v", err)
	}
}
