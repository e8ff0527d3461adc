package repository

import (
	"context"
	"errors"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequirementsRepository manages the one-per-project requirement rows. Rows are
// created lazily on the first save and updated in place afterwards.
type RequirementsRepository interface {
	GetFunctional(ctx context.Context, projectID uuid.UUID) (*models.FunctionalRequirements, error)
	GetDesign(ctx context.Context, projectID uuid.UUID) (*models.DesignRequirements, error)
	UpsertFunctional(ctx context.Context, projectID uuid.UUID, patch map[string]any) error
	UpsertDesign(ctx context.Context, projectID uuid.UUID, patch map[string]any) error
}

type requirementsRepository struct {
	db *gorm.DB
}

func NewRequirementsRepository(db *gorm.DB) RequirementsRepository {
	return &requirementsRepository{db: db}
}

// GetFunctional returns nil, nil when the project has no functional row yet.
func (r *requirementsRepository) GetFunctional(ctx context.Context, projectID uuid.UUID) (*models.FunctionalRequirements, error) {
	var out models.FunctionalRequirements
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get functional requirements failed")
	}
	return &out, nil
}

// GetDesign returns nil, nil when the project has no design row yet.
func (r *requirementsRepository) GetDesign(ctx context.Context, projectID uuid.UUID) (*models.DesignRequirements, error) {
	var out models.DesignRequirements
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get design requirements failed")
	}
	return &out, nil
}

func (r *requirementsRepository) UpsertFunctional(ctx context.Context, projectID uuid.UUID, patch map[string]any) error {
	row := &models.FunctionalRequirements{ProjectID: projectID, DataSources: []string{}, Metrics: []string{}}
	if err := upsertByProject(ctx, r.db, row, projectID, patch); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "save functional requirements failed")
	}
	return nil
}

func (r *requirementsRepository) UpsertDesign(ctx context.Context, projectID uuid.UUID, patch map[string]any) error {
	row := &models.DesignRequirements{ProjectID: projectID, ColorPalette: []string{}, Fonts: []string{}}
	if err := upsertByProject(ctx, r.db, row, projectID, patch); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "save design requirements failed")
	}
	return nil
}

// upsertByProject updates the project's row with patch, inserting blank first
// when no row exists.
func upsertByProject[T any](ctx context.Context, db *gorm.DB, blank *T, projectID uuid.UUID, patch map[string]any) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(T)).Where("project_id = ?", projectID).Updates(patch)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if err := tx.Create(blank).Error; err != nil {
			return err
		}
		return tx.Model(blank).Updates(patch).Error
	})
}
