package repository

import (
	"context"
	"errors"
	"fmt"

	appErr "github.com/dashspec/engine/pkg/errors"
	"gorm.io/gorm"
)

// Conds is a column equality filter. A nil value matches NULL.
type Conds map[string]any

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	GetOne(ctx context.Context, conds Conds, dest *T) error
	List(ctx context.Context, conds Conds, orderBy string) ([]T, error)
	Update(ctx context.Context, obj *T) error
	UpdateWhere(ctx context.Context, conds Conds, patch map[string]any) (int64, error)
	Delete(ctx context.Context, id any) error
	DeleteWhere(ctx context.Context, conds Conds) (int64, error)
}

type baseRepository[T any] struct {
	db *gorm.DB
}

func NewBaseRepository[T any](db *gorm.DB) BaseRepository[T] {
	return &baseRepository[T]{db: db}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create entity failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "entity not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get entity failed")
	}
	return nil
}

func (r *baseRepository[T]) GetOne(ctx context.Context, conds Conds, dest *T) error {
	if err := r.db.WithContext(ctx).Where(map[string]any(conds)).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "entity not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get entity failed")
	}
	return nil
}

func (r *baseRepository[T]) List(ctx context.Context, conds Conds, orderBy string) ([]T, error) {
	q := r.db.WithContext(ctx)
	if len(conds) > 0 {
		q = q.Where(map[string]any(conds))
	}
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list entities failed")
	}
	return out, nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "update entity failed")
	}
	return nil
}

func (r *baseRepository[T]) UpdateWhere(ctx context.Context, conds Conds, patch map[string]any) (int64, error) {
	if len(conds) == 0 {
		return 0, appErr.New(appErr.CodeInvalid, "update without conditions")
	}
	var t T
	res := r.db.WithContext(ctx).Model(&t).Where(map[string]any(conds)).Updates(patch)
	if res.Error != nil {
		return 0, appErr.Wrap(res.Error, appErr.CodeInternal, "update entities failed")
	}
	return res.RowsAffected, nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete entity failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("entity %v not found", id))
	}
	return nil
}

func (r *baseRepository[T]) DeleteWhere(ctx context.Context, conds Conds) (int64, error) {
	if len(conds) == 0 {
		return 0, appErr.New(appErr.CodeInvalid, "delete without conditions")
	}
	var t T
	res := r.db.WithContext(ctx).Where(map[string]any(conds)).Delete(&t)
	if res.Error != nil {
		return 0, appErr.Wrap(res.Error, appErr.CodeInternal, "delete entities failed")
	}
	return res.RowsAffected, nil
}
