package devices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
)

type devicesRepository interface {
	Create(ctx context.Context, device *models.KioskDevice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.KioskDevice, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.KioskDevice, error)
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
	Retire(ctx context.Context, id uuid.UUID) (bool, error)
}

type storeChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service registers and manages kiosk terminals.
type Service interface {
	Register(ctx context.Context, storeID uuid.UUID, name string) (*models.KioskDevice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.KioskDevice, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.KioskDevice, error)
	Heartbeat(ctx context.Context, id uuid.UUID) (*models.KioskDevice, error)
	Retire(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   devicesRepository
	stores storeChecker
}

// NewService builds the devices service.
func NewService(repo devicesRepository, stores storeChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("devices repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	return &service{repo: repo, stores: stores}, nil
}

func (s *service) Register(ctx context.Context, storeID uuid.UUID, name string) (*models.KioskDevice, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device name is required")
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store == nil || !store.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	device := &models.KioskDevice{
		StoreID: storeID,
		Name:    name,
		Status:  enums.DeviceStatusActive,
	}
	if err := s.repo.Create(ctx, device); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create device")
	}
	return device, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.KioskDevice, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}
	device, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load device")
	}
	if device == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
	}
	return device, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.KioskDevice, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list devices")
	}
	return rows, nil
}

// Heartbeat stamps the device's last activity time. Retired devices
// still report in but stay retired.
func (s *service) Heartbeat(ctx context.Context, id uuid.UUID) (*models.KioskDevice, error) {
	device, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastSeen(ctx, id, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch device")
	}
	device.LastSeenAt = &now
	return device, nil
}

func (s *service) Retire(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}
	ok, err := s.repo.Retire(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire device")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
	}
	return nil
}
