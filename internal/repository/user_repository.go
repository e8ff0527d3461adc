package repository

import (
	"context"
	"errors"

	"github.com/dashspec/engine/internal/models"
	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	GetEmails(ctx context.Context, ids []uuid.UUID) ([]models.UserEmail, error)
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by email failed")
	}
	return nil
}

// GetEmails resolves attribution emails for a batch of user ids. Unknown ids are skipped.
func (r *userRepository) GetEmails(ctx context.Context, ids []uuid.UUID) ([]models.UserEmail, error) {
	if len(ids) == 0 {
		return []models.UserEmail{}, nil
	}
	var out []models.UserEmail
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("id", "email").
		Where("id IN ?", ids).
		Scan(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get user emails failed")
	}
	return out, nil
}
