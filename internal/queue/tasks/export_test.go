package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashspec/engine/internal/export"
	"github.com/dashspec/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by tasks)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockBuilder struct {
	mock.Mock
}

func (m *mockBuilder) Build(ctx context.Context, projectID uuid.UUID) (*export.Document, error) {
	args := m.Called(ctx, projectID)
	if v := args.Get(0); v != nil {
		return v.(*export.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, doc *export.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func TestNewExportTask(t *testing.T) {
	projectID, userID := uuid.New(), uuid.New()
	task, err := NewExportTask(projectID, userID)
	require.NoError(t, err)
	assert.Equal(t, TypeProjectExport, task.Type())

	var p ExportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, projectID.String(), p.ProjectID)
	assert.Equal(t, userID.String(), p.RequestedBy)
}

func TestExportTaskHandler_HandleExport(t *testing.T) {
	projectID := uuid.New()

	t.Run("successful export", func(t *testing.T) {
		builder := &mockBuilder{}
		store := &mockStore{}
		handler := NewExportTaskHandler(builder, store)

		task, err := NewExportTask(projectID, uuid.New())
		require.NoError(t, err)

		doc := &export.Document{ProjectID: projectID, Filename: "Sales_v1.md", Content: "# Sales\n"}
		builder.On("Build", mock.Anything, projectID).Return(doc, nil).Once()
		store.On("Put", mock.Anything, doc).Return(nil).Once()

		require.NoError(t, handler.HandleExport(context.Background(), task))
		mock.AssertExpectationsForObjects(t, builder, store)
	})

	t.Run("build failure is retried", func(t *testing.T) {
		builder := &mockBuilder{}
		store := &mockStore{}
		handler := NewExportTaskHandler(builder, store)

		task, err := NewExportTask(projectID, uuid.New())
		require.NoError(t, err)

		boom := errors.New("database unavailable")
		builder.On("Build", mock.Anything, projectID).Return(nil, boom).Once()

		err = handler.HandleExport(context.Background(), task)
		require.ErrorIs(t, err, boom)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
		mock.AssertExpectationsForObjects(t, builder, store)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		builder := &mockBuilder{}
		store := &mockStore{}
		handler := NewExportTaskHandler(builder, store)

		task, err := NewExportTask(projectID, uuid.New())
		require.NoError(t, err)

		doc := &export.Document{ProjectID: projectID}
		builder.On("Build", mock.Anything, projectID).Return(doc, nil).Once()
		store.On("Put", mock.Anything, doc).Return(errors.New("redis down")).Once()

		require.Error(t, handler.HandleExport(context.Background(), task))
		mock.AssertExpectationsForObjects(t, builder, store)
	})

	t.Run("malformed payload skips retry", func(t *testing.T) {
		handler := NewExportTaskHandler(&mockBuilder{}, &mockStore{})

		err := handler.HandleExport(context.Background(), asynq.NewTask(TypeProjectExport, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)

		b, _ := json.Marshal(ExportPayload{ProjectID: "not-a-uuid"})
		err = handler.HandleExport(context.Background(), asynq.NewTask(TypeProjectExport, b))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
