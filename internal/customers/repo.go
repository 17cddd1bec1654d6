package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
)

// Repository persists customers with gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a customers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a customer.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// FindByID returns a customer, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &customer, nil
}

// FindByIdentifier matches the identifier against email first, then
// phone. Returns nil when neither matches.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &customer, nil
}

// UpdateLoginCodeHash replaces the stored login code hash.
func (r *Repository) UpdateLoginCodeHash(ctx context.Context, id uuid.UUID, hash string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Update("login_code_hash", hash).Error
	if err != nil {
		return fmt.Errorf("update login code: %w", err)
	}
	return nil
}
