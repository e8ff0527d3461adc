package repository

import (
	"context"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdditionalRequirementRepository interface {
	BaseRepository[models.AdditionalRequirement]
	Append(ctx context.Context, projectID uuid.UUID, category, content string) error
	// ListByProject returns notes oldest first. An empty category returns all.
	ListByProject(ctx context.Context, projectID uuid.UUID, category string) ([]models.AdditionalRequirement, error)
}

type additionalRequirementRepository struct {
	BaseRepository[models.AdditionalRequirement]
	db *gorm.DB
}

func NewAdditionalRequirementRepository(db *gorm.DB) AdditionalRequirementRepository {
	return &additionalRequirementRepository{BaseRepository: NewBaseRepository[models.AdditionalRequirement](db), db: db}
}

func (r *additionalRequirementRepository) Append(ctx context.Context, projectID uuid.UUID, category, content string) error {
	row := models.AdditionalRequirement{ProjectID: projectID, Category: category, Content: content}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "append additional requirement failed")
	}
	return nil
}

func (r *additionalRequirementRepository) ListByProject(ctx context.Context, projectID uuid.UUID, category string) ([]models.AdditionalRequirement, error) {
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []models.AdditionalRequirement
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list additional requirements failed")
	}
	return out, nil
}
