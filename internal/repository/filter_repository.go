package repository

import (
	"context"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FilterRepository interface {
	BaseRepository[models.Filter]
	ListGlobal(ctx context.Context, projectID uuid.UUID) ([]models.Filter, error)
	ListByTab(ctx context.Context, tabID uuid.UUID) ([]models.Filter, error)
	ReplaceGlobal(ctx context.Context, projectID uuid.UUID, names []string) error
}

type filterRepository struct {
	BaseRepository[models.Filter]
	db *gorm.DB
}

func NewFilterRepository(db *gorm.DB) FilterRepository {
	return &filterRepository{BaseRepository: NewBaseRepository[models.Filter](db), db: db}
}

func (r *filterRepository) ListGlobal(ctx context.Context, projectID uuid.UUID) ([]models.Filter, error) {
	var out []models.Filter
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND tab_id IS NULL", projectID).
		Order("order_index ASC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list global filters failed")
	}
	return out, nil
}

func (r *filterRepository) ListByTab(ctx context.Context, tabID uuid.UUID) ([]models.Filter, error) {
	var out []models.Filter
	if err := r.db.WithContext(ctx).Where("tab_id = ?", tabID).Order("order_index ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list tab filters failed")
	}
	return out, nil
}

// ReplaceGlobal swaps the project-level filters for names in one transaction.
// Tab-scoped filters are left alone.
func (r *filterRepository) ReplaceGlobal(ctx context.Context, projectID uuid.UUID, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND tab_id IS NULL", projectID).Delete(&models.Filter{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		filters := make([]models.Filter, len(names))
		for i, name := range names {
			filters[i] = models.Filter{ProjectID: projectID, Name: name, OrderIndex: i}
		}
		return tx.Create(&filters).Error
	})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "replace global filters failed")
	}
	return nil
}
