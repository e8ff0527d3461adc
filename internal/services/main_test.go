package services_test

import (
	"context"
	"os"
	"testing"

	"github.com/dashspec/engine/internal/models"
	"github.com/dashspec/engine/internal/repository"
	"github.com/dashspec/engine/internal/testutil"
	"github.com/dashspec/engine/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

func newGateway(t *testing.T) *repository.Gateway {
	t.Helper()
	return repository.NewGateway(testutil.OpenDB(t))
}

func newUser(t *testing.T, gw *repository.Gateway, email string) uuid.UUID {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", Name: email}
	require.NoError(t, gw.Users.Create(context.Background(), u))
	return u.ID
}

func countRows(t *testing.T, gw *repository.Gateway, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gw.DB().Model(model).Count(&n).Error)
	return n
}
