package services

import (
	"context"
	"strings"

	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService manages a project's ordered checklist. Order indexes stay
// dense after every call.
type TaskService interface {
	AddTask(ctx context.Context, projectID uuid.UUID, description string) (*models.Task, error)
	ListTasks(ctx context.Context, projectID uuid.UUID) ([]models.Task, error)
	ToggleTask(ctx context.Context, projectID, taskID uuid.UUID, completed bool) error
	DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error
	MoveTask(ctx context.Context, projectID, taskID uuid.UUID, newIndex int) ([]models.Task, error)
	ReorderTasks(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) ([]models.Task, error)
}

type taskService struct {
	gw *repository.Gateway
}

func NewTaskService(gw *repository.Gateway) TaskService {
	return &taskService{gw: gw}
}

var _ TaskService = (*taskService)(nil)

func (s *taskService) AddTask(ctx context.Context, projectID uuid.UUID, description string) (*models.Task, error) {
	logger.L().Info("add task", zap.String("project_id", projectID.String()))
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, appErr.New(appErr.CodeInvalid, "task description is required")
	}
	if _, err := s.gw.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	t := &models.Task{ProjectID: projectID, Description: description}
	if err := s.gw.Tasks.Append(ctx, t); err != nil {
		logger.L().Error("add task failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *taskService) ListTasks(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	return s.gw.Tasks.ListByProject(ctx, projectID)
}

func (s *taskService) ToggleTask(ctx context.Context, projectID, taskID uuid.UUID, completed bool) error {
	logger.L().Info("toggle task", zap.String("project_id", projectID.String()), zap.String("task_id", taskID.String()), zap.Bool("completed", completed))
	return s.gw.Tasks.SetCompleted(ctx, projectID, taskID, completed)
}

func (s *taskService) DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error {
	logger.L().Info("delete task", zap.String("project_id", projectID.String()), zap.String("task_id", taskID.String()))
	return s.gw.Tasks.Remove(ctx, projectID, taskID)
}

// MoveTask moves one task to newIndex, shifting the tasks in between. An
// index past the end moves the task last.
func (s *taskService) MoveTask(ctx context.Context, projectID, taskID uuid.UUID, newIndex int) ([]models.Task, error) {
	logger.L().Info("move task", zap.String("project_id", projectID.String()), zap.String("task_id", taskID.String()), zap.Int("index", newIndex))
	if newIndex < 0 {
		return nil, appErr.New(appErr.CodeInvalid, "index must not be negative")
	}

	tasks, err := s.gw.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	from := -1
	ids := make([]uuid.UUID, 0, len(tasks))
	for i, t := range tasks {
		if t.ID == taskID {
			from = i
			continue
		}
		ids = append(ids, t.ID)
	}
	if from < 0 {
		return nil, appErr.New(appErr.CodeNotFound, "task not found")
	}
	if newIndex > len(ids) {
		newIndex = len(ids)
	}
	ids = append(ids[:newIndex], append([]uuid.UUID{taskID}, ids[newIndex:]...)...)
	return s.ReorderTasks(ctx, projectID, ids)
}

// ReorderTasks applies a complete new ordering in one transaction.
func (s *taskService) ReorderTasks(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) ([]models.Task, error) {
	logger.L().Info("reorder tasks", zap.String("project_id", projectID.String()), zap.Int("count", len(orderedIDs)))
	if err := s.gw.Tasks.Reorder(ctx, projectID, orderedIDs); err != nil {
		if !appErr.IsCode(err, appErr.CodeInvalid) {
			logger.L().Error("reorder tasks failed", zap.String("project_id", projectID.String()), zap.Error(err))
		}
		return nil, err
	}
	return s.gw.Tasks.ListByProject(ctx, projectID)
}
