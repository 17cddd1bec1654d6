package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
)

// Repository persists stores with gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a stores repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a store.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

// FindByID returns a store, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find store: %w", err)
	}
	return &store, nil
}

// List returns all active stores, alphabetically.
func (r *Repository) List(ctx context.Context) ([]models.Store, error) {
	var rows []models.Store
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return rows, nil
}

// Update saves the given store row.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Save(store).Error; err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a store. Returns false when no row matched.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return false, fmt.Errorf("deactivate store: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
