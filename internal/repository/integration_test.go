//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	"github.com/dashspec/engine/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("dashspec"),
		tcpostgres.WithUsername("dashspec"),
		tcpostgres.WithPassword("dashspec"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(ctx, database.Options{Driver: "postgres", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return db
}

func TestPostgres_LineageAndCascade(t *testing.T) {
	ctx := context.Background()
	g := repository.NewGateway(openPostgres(t))

	root := &models.Project{Name: "Ops", VersionNumber: 1, CreatedBy: uuid.New()}
	require.NoError(t, g.Projects.Create(ctx, root))
	child := &models.Project{Name: "Ops", VersionNumber: 2, ParentProjectID: &root.ID, CreatedBy: root.CreatedBy}
	require.NoError(t, g.Projects.Create(ctx, child))

	require.NoError(t, g.Tabs.Replace(ctx, child.ID, []string{"A", "B"}))
	require.NoError(t, g.Tasks.Append(ctx, &models.Task{ProjectID: child.ID, Description: "ship"}))

	versions, err := g.Projects.ListVersions(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	require.NoError(t, g.Projects.Delete(ctx, root.ID))

	var n int64
	require.NoError(t, g.DB().Model(&models.DashboardTab{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, g.DB().Model(&models.Project{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPostgres_ReorderInTransaction(t *testing.T) {
	ctx := context.Background()
	g := repository.NewGateway(openPostgres(t))
	p := &models.Project{Name: "Ops", VersionNumber: 1, CreatedBy: uuid.New()}
	require.NoError(t, g.Projects.Create(ctx, p))

	var ids []uuid.UUID
	for _, d := range []string{"x", "y", "z"} {
		task := &models.Task{ProjectID: p.ID, Description: d}
		require.NoError(t, g.Tasks.Append(ctx, task))
		ids = append(ids, task.ID)
	}
	require.NoError(t, g.Tasks.Reorder(ctx, p.ID, []uuid.UUID{ids[2], ids[0], ids[1]}))

	tasks, err := g.Tasks.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "x", "y"}, descriptions(tasks))
}
