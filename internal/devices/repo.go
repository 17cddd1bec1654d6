package devices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
)

// Repository persists kiosk devices with gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a devices repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a device.
func (r *Repository) Create(ctx context.Context, device *models.KioskDevice) error {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

// FindByID returns a device, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.KioskDevice, error) {
	var device models.KioskDevice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&device).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find device: %w", err)
	}
	return &device, nil
}

// ListByStore returns a store's devices, oldest first.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.KioskDevice, error) {
	var rows []models.KioskDevice
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return rows, nil
}

// TouchLastSeen stamps the device's last activity time.
func (r *Repository) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.KioskDevice{}).
		Where("id = ?", id).
		Update("last_seen_at", at).Error
	if err != nil {
		return fmt.Errorf("touch device: %w", err)
	}
	return nil
}

// Retire marks a device retired. Returns false when no row matched.
func (r *Repository) Retire(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.KioskDevice{}).
		Where("id = ?", id).
		Update("status", enums.DeviceStatusRetired)
	if result.Error != nil {
		return false, fmt.Errorf("retire device: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
