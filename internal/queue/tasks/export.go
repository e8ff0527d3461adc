package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dashspec/engine/internal/export"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeProjectExport renders a project's Markdown export in the background.
const TypeProjectExport = "project:export"

// QueueExports is the asynq queue export tasks are routed to.
const QueueExports = "exports"

// ExportPayload is the task payload for project exports.
type ExportPayload struct {
	ProjectID   string `json:"project_id"`
	RequestedBy string `json:"requested_by"`
}

// NewExportTask builds a project:export task.
func NewExportTask(projectID, requestedBy uuid.UUID, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(ExportPayload{ProjectID: projectID.String(), RequestedBy: requestedBy.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProjectExport, b, opts...), nil
}

// Builder renders a project into an export document.
type Builder interface {
	Build(ctx context.Context, projectID uuid.UUID) (*export.Document, error)
}

// Store keeps rendered documents for later download.
type Store interface {
	Put(ctx context.Context, doc *export.Document) error
}

// ExportTaskHandler handles project:export tasks.
type ExportTaskHandler struct {
	builder Builder
	store   Store
}

func NewExportTaskHandler(builder Builder, store Store) *ExportTaskHandler {
	return &ExportTaskHandler{builder: builder, store: store}
}

func (h *ExportTaskHandler) HandleExport(ctx context.Context, t *asynq.Task) error {
	var p ExportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid export task payload", zap.Error(err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(p.ProjectID)
	if err != nil {
		logger.L().Error("invalid project id in task", zap.Error(err))
		return fmt.Errorf("parse project id: %v: %w", err, asynq.SkipRetry)
	}

	logger.L().Info("handling export task", zap.String("project_id", id.String()), zap.String("requested_by", p.RequestedBy))

	doc, err := h.builder.Build(ctx, id)
	if err != nil {
		logger.L().Error("build export failed", zap.String("project_id", id.String()), zap.Error(err))
		return err
	}
	if err := h.store.Put(ctx, doc); err != nil {
		logger.L().Error("store export failed", zap.String("project_id", id.String()), zap.Error(err))
		return err
	}

	logger.L().Info("export stored", zap.String("project_id", id.String()), zap.String("filename", doc.Filename))
	return nil
}
