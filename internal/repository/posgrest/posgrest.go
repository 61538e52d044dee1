package posgrest

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by FindOne when nothing matches.
var ErrNotFound = errors.New("record not found")

// repository is a generic GORM-based repository implementation.
type repository[T interface{}] struct {
	db *gorm.DB
}

// New creates a new generic repository instance for type T.
func New[T interface{}](db *gorm.DB) *repository[T] {
	return &repository[T]{
		db,
	}
}

// Create inserts a new entity into the database.
func (r *repository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// GetAll retrieves all entities of type T from the database.
func (r *repository[T]) GetAll(ctx context.Context) (*[]T, error) {
	var entities []T
	err := r.db.WithContext(ctx).Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return &entities, nil
}

// GetBy retrieves entities matching a specific field value.
// The key parameter is a condition such as "tag_uid = ?".
func (r *repository[T]) GetBy(ctx context.Context, key string, value interface{}) (*[]T, error) {
	var entity []T
	if err := r.db.WithContext(ctx).Where(key, value).Find(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindOne returns the first entity matching key, or ErrNotFound.
func (r *repository[T]) FindOne(ctx context.Context, key string, value interface{}) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Where(key, value).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}
