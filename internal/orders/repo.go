package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
)

// Repository persists orders with gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the order and its lines in one statement batch. Pass a
// transaction handle when the insert must commit atomically with other
// work; pass nil to use the repository's own connection.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	conn := tx
	if conn == nil {
		conn = r.db
	}
	if err := conn.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// FindByID loads an order with its lines, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

// ListByStore returns a store's orders, newest first, optionally
// narrowed to one status.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, status enums.OrderStatus, limit, offset int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var rows []models.Order
	err := query.
		Preload("Lines").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return rows, total, nil
}

// UpdateStatus moves an order to a new status. Returns false when no
// row matched.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return false, fmt.Errorf("update order status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
