package services

import (
	"context"
	"time"

	"github.com/dashspec/engine/internal/export"
	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/queue/tasks"
	"github.com/dashspec/engine/internal/repository"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ExportService interface {
	Build(ctx context.Context, projectID uuid.UUID) (*export.Document, error)
	Enqueue(ctx context.Context, projectID, userID uuid.UUID) (string, error)
	Latest(ctx context.Context, projectID uuid.UUID) (*export.Document, error)
}

type exportService struct {
	gw          *repository.Gateway
	asynqClient *asynq.Client
	cache       *export.Cache
	now         func() time.Time
}

// NewExportService renders exports from gw. client and cache may be nil, in
// which case only synchronous exports are available.
func NewExportService(gw *repository.Gateway, client *asynq.Client, cache *export.Cache) ExportService {
	return &exportService{gw: gw, asynqClient: client, cache: cache, now: time.Now}
}

var _ ExportService = (*exportService)(nil)
var _ tasks.Builder = (*exportService)(nil)

// Snapshot loads everything the exports show for a project. The reads after
// the project lookup run concurrently.
func Snapshot(ctx context.Context, gw *repository.Gateway, projectID uuid.UUID) (export.Snapshot, error) {
	var snap export.Snapshot
	p, err := gw.GetProject(ctx, projectID)
	if err != nil {
		return snap, err
	}
	snap.Project = *p

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Functional, err = gw.GetFunctional(gctx, projectID)
		return err
	})
	g.Go(func() (err error) {
		snap.Tabs, err = gw.ListTabs(gctx, projectID)
		return err
	})
	g.Go(func() (err error) {
		snap.GlobalFilters, err = gw.ListGlobalFilters(gctx, projectID)
		return err
	})
	g.Go(func() (err error) {
		snap.Additional, err = gw.Additional.ListByProject(gctx, projectID, models.CategoryFunctional)
		return err
	})
	g.Go(func() (err error) {
		snap.Design, err = gw.GetDesign(gctx, projectID)
		return err
	})
	g.Go(func() (err error) {
		snap.Tasks, err = gw.Tasks.ListByProject(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return export.Snapshot{}, err
	}
	return snap, nil
}

func (s *exportService) Build(ctx context.Context, projectID uuid.UUID) (*export.Document, error) {
	logger.L().Info("build export", zap.String("project_id", projectID.String()))
	snap, err := Snapshot(ctx, s.gw, projectID)
	if err != nil {
		return nil, err
	}
	doc := export.NewDocument(snap, s.now())
	logger.L().Info("export built", zap.String("project_id", projectID.String()), zap.String("filename", doc.Filename), zap.Int("bytes", len(doc.Content)))
	return doc, nil
}

// Enqueue schedules a background render and returns the queue task id.
func (s *exportService) Enqueue(ctx context.Context, projectID, userID uuid.UUID) (string, error) {
	logger.L().Info("enqueue export", zap.String("project_id", projectID.String()), zap.String("user_id", userID.String()))
	if s.asynqClient == nil {
		return "", appErr.New(appErr.CodeUnavailable, "background exports are not configured")
	}
	if _, err := s.gw.GetProject(ctx, projectID); err != nil {
		return "", err
	}
	task, err := tasks.NewExportTask(projectID, userID, asynq.Queue(tasks.QueueExports), asynq.MaxRetry(3), asynq.Timeout(time.Minute))
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "build export task failed")
	}
	info, err := s.asynqClient.EnqueueContext(ctx, task)
	if err != nil {
		logger.L().Error("enqueue export failed", zap.String("project_id", projectID.String()), zap.Error(err))
		return "", appErr.Wrap(err, appErr.CodeUnavailable, "enqueue export failed")
	}
	return info.ID, nil
}

func (s *exportService) Latest(ctx context.Context, projectID uuid.UUID) (*export.Document, error) {
	if s.cache == nil {
		return nil, appErr.New(appErr.CodeUnavailable, "background exports are not configured")
	}
	return s.cache.Latest(ctx, projectID)
}
