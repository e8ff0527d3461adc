package repository

import (
	"context"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListAll(ctx context.Context) ([]models.Project, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	ListVersions(ctx context.Context, rootID uuid.UUID) ([]models.Project, error)
	ListChildren(ctx context.Context, projectID uuid.UUID) ([]models.Project, error)
	MaxVersion(ctx context.Context, rootID uuid.UUID) (int, error)
	UpdateFields(ctx context.Context, projectID uuid.UUID, fields map[string]any) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db), db: db}
}

func (r *projectRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects failed")
	}
	return out, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("created_by = ?", userID).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects by user failed")
	}
	return out, nil
}

// ListVersions returns the root and every enhancement under it, oldest version first.
func (r *projectRepository) ListVersions(ctx context.Context, rootID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).
		Where("id = ? OR parent_project_id = ?", rootID, rootID).
		Order("version_number ASC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list project versions failed")
	}
	return out, nil
}

func (r *projectRepository) ListChildren(ctx context.Context, projectID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("parent_project_id = ?", projectID).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list child projects failed")
	}
	return out, nil
}

// MaxVersion returns the highest version_number in the tree rooted at rootID, 0 when empty.
func (r *projectRepository) MaxVersion(ctx context.Context, rootID uuid.UUID) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? OR parent_project_id = ?", rootID, rootID).
		Select("COALESCE(MAX(version_number),0)").
		Scan(&max).Error; err != nil {
		return 0, appErr.Wrap(err, appErr.CodeInternal, "compute max version failed")
	}
	return max, nil
}

func (r *projectRepository) UpdateFields(ctx context.Context, projectID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Updates(fields)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update project failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}
