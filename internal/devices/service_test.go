package devices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
)

type stubRepo struct {
	created *models.KioskDevice
	device  *models.KioskDevice
	touched *time.Time
	retired bool
}

func (s *stubRepo) Create(_ context.Context, device *models.KioskDevice) error {
	s.created = device
	return nil
}

func (s *stubRepo) FindByID(context.Context, uuid.UUID) (*models.KioskDevice, error) {
	return s.device, nil
}

func (s *stubRepo) ListByStore(context.Context, uuid.UUID) ([]models.KioskDevice, error) {
	if s.device == nil {
		return nil, nil
	}
	return []models.KioskDevice{*s.device}, nil
}

func (s *stubRepo) TouchLastSeen(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.touched = &at
	return nil
}

func (s *stubRepo) Retire(context.Context, uuid.UUID) (bool, error) {
	return s.retired, nil
}

type stubStores struct {
	store *models.Store
}

func (s *stubStores) FindByID(context.Context, uuid.UUID) (*models.Store, error) {
	return s.store, nil
}

func TestRegister(t *testing.T) {
	repo := &stubRepo{}
	svc, err := NewService(repo, &stubStores{store: &models.Store{ID: uuid.New(), IsActive: true}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	device, err := svc.Register(context.Background(), uuid.New(), "front-entrance")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if device.Status != enums.DeviceStatusActive {
		t.Fatalf("new devices must be active, got %s", device.Status)
	}
	if repo.created == nil {
		t.Fatalf("device not persisted")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := NewService(&stubRepo{}, &stubStores{store: &models.Store{IsActive: true}})

	if _, err := svc.Register(context.Background(), uuid.Nil, "name"); pkgerrors.As(err) == nil {
		t.Fatalf("expected error for missing store id")
	}
	if _, err := svc.Register(context.Background(), uuid.New(), ""); pkgerrors.As(err) == nil {
		t.Fatalf("expected error for missing name")
	}
}

func TestRegisterInactiveStore(t *testing.T) {
	svc, _ := NewService(&stubRepo{}, &stubStores{store: &models.Store{IsActive: false}})

	_, err := svc.Register(context.Background(), uuid.New(), "front-entrance")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive store, got %v", err)
	}
}

func TestGetMissingDevice(t *testing.T) {
	svc, _ := NewService(&stubRepo{}, &stubStores{store: &models.Store{IsActive: true}})

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHeartbeat(t *testing.T) {
	repo := &stubRepo{device: &models.KioskDevice{ID: uuid.New(), Status: enums.DeviceStatusActive}}
	svc, _ := NewService(repo, &stubStores{store: &models.Store{IsActive: true}})

	device, err := svc.Heartbeat(context.Background(), repo.device.ID)
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if repo.touched == nil {
		t.Fatalf("last seen not stamped")
	}
	if device.LastSeenAt == nil || !device.LastSeenAt.Equal(*repo.touched) {
		t.Fatalf("returned device missing last seen time")
	}
}

func TestHeartbeatMissingDevice(t *testing.T) {
	svc, _ := NewService(&stubRepo{}, &stubStores{store: &models.Store{IsActive: true}})

	_, err := svc.Heartbeat(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRetire(t *testing.T) {
	svc, _ := NewService(&stubRepo{retired: true}, &stubStores{store: &models.Store{IsActive: true}})
	if err := svc.Retire(context.Background(), uuid.New()); err != nil {
		t.Fatalf("retire: %v", err)
	}

	svc, _ = NewService(&stubRepo{retired: false}, &stubStores{store: &models.Store{IsActive: true}})
	err := svc.Retire(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
