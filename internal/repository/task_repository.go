package repository

import (
	"context"
	"errors"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository keeps a project's task order_index values dense (0..n-1)
// after every write.
type TaskRepository interface {
	BaseRepository[models.Task]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error)
	Append(ctx context.Context, task *models.Task) error
	SetCompleted(ctx context.Context, projectID, taskID uuid.UUID, completed bool) error
	Remove(ctx context.Context, projectID, taskID uuid.UUID) error
	Reorder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error
}

type taskRepository struct {
	BaseRepository[models.Task]
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{BaseRepository: NewBaseRepository[models.Task](db), db: db}
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	var out []models.Task
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("order_index ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list tasks failed")
	}
	return out, nil
}

// Append inserts task at the tail of its project's list.
func (r *taskRepository) Append(ctx context.Context, task *models.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Task{}).Where("project_id = ?", task.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		task.OrderIndex = int(count)
		return tx.Create(task).Error
	})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "append task failed")
	}
	return nil
}

func (r *taskRepository) SetCompleted(ctx context.Context, projectID, taskID uuid.UUID, completed bool) error {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Update("completed", completed)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update task failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "task not found")
	}
	return nil
}

// Remove deletes a task and closes the gap it leaves in the ordering.
func (r *taskRepository) Remove(ctx context.Context, projectID, taskID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Task
		if err := tx.Where("id = ? AND project_id = ?", taskID, projectID).First(&t).Error; err != nil {
			return err
		}
		if err := tx.Delete(&t).Error; err != nil {
			return err
		}
		return tx.Model(&models.Task{}).
			Where("project_id = ? AND order_index > ?", projectID, t.OrderIndex).
			Update("order_index", gorm.Expr("order_index - 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "task not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "delete task failed")
	}
	return nil
}

// Reorder assigns order_index i to orderedIDs[i]. orderedIDs must name every
// task of the project exactly once. All writes share one transaction.
func (r *taskRepository) Reorder(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Task
		if err := tx.Where("project_id = ?", projectID).Find(&existing).Error; err != nil {
			return err
		}
		if err := checkPermutation(existing, orderedIDs); err != nil {
			return err
		}
		for i, id := range orderedIDs {
			if err := tx.Model(&models.Task{}).Where("id = ?", id).Update("order_index", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var ae *appErr.AppError
		if errors.As(err, &ae) {
			return ae
		}
		return appErr.Wrap(err, appErr.CodeInternal, "reorder tasks failed")
	}
	return nil
}

func checkPermutation(existing []models.Task, ids []uuid.UUID) error {
	if len(existing) != len(ids) {
		return appErr.Newf(appErr.CodeInvalid, "reorder needs %d task ids, got %d", len(existing), len(ids))
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = false
	}
	for _, id := range ids {
		seen, ok := known[id]
		if !ok {
			return appErr.Newf(appErr.CodeInvalid, "task %s does not belong to project", id)
		}
		if seen {
			return appErr.Newf(appErr.CodeInvalid, "task %s listed twice", id)
		}
		known[id] = true
	}
	return nil
}
