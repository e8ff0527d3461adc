package repository

import (
	"context"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TabRepository interface {
	BaseRepository[models.DashboardTab]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.DashboardTab, error)
	Replace(ctx context.Context, projectID uuid.UUID, names []string) error
}

type tabRepository struct {
	BaseRepository[models.DashboardTab]
	db *gorm.DB
}

func NewTabRepository(db *gorm.DB) TabRepository {
	return &tabRepository{BaseRepository: NewBaseRepository[models.DashboardTab](db), db: db}
}

func (r *tabRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.DashboardTab, error) {
	var out []models.DashboardTab
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("order_index ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list tabs failed")
	}
	return out, nil
}

// Replace swaps the project's tabs for names in one transaction, so readers
// never observe the empty state between delete and insert.
func (r *tabRepository) Replace(ctx context.Context, projectID uuid.UUID, names []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.DashboardTab{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		tabs := make([]models.DashboardTab, len(names))
		for i, name := range names {
			tabs[i] = models.DashboardTab{ProjectID: projectID, Name: name, OrderIndex: i}
		}
		return tx.Create(&tabs).Error
	})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "replace tabs failed")
	}
	return nil
}
