package repository

import (
	"context"
	"encoding/json"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HistoryRepository interface {
	Append(ctx context.Context, projectID, changedBy uuid.UUID, changeType, description string, snapshot any) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ChangeHistory, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, projectID, changedBy uuid.UUID, changeType, description string, snapshot any) error {
	var snap datatypes.JSON
	if snapshot != nil {
		b, err := json.Marshal(snapshot)
		if err != nil {
			return appErr.Wrap(err, appErr.CodeInvalid, "invalid history snapshot")
		}
		snap = datatypes.JSON(b)
	}
	row := models.ChangeHistory{
		ProjectID:         projectID,
		ChangeType:        changeType,
		ChangeDescription: description,
		Snapshot:          snap,
		ChangedBy:         changedBy,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "append change history failed")
	}
	return nil
}

// ListByProject returns the audit log newest first.
func (r *historyRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ChangeHistory, error) {
	var out []models.ChangeHistory
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list change history failed")
	}
	return out, nil
}
