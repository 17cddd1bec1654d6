package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/internal/session"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/security"
)

type stubRepo struct {
	created      *models.Customer
	byID         *models.Customer
	byIdentifier *models.Customer
	rotatedHash  string
}

func (s *stubRepo) Create(_ context.Context, customer *models.Customer) error {
	s.created = customer
	return nil
}

func (s *stubRepo) FindByID(context.Context, uuid.UUID) (*models.Customer, error) {
	return s.byID, nil
}

func (s *stubRepo) FindByIdentifier(context.Context, string) (*models.Customer, error) {
	return s.byIdentifier, nil
}

func (s *stubRepo) UpdateLoginCodeHash(_ context.Context, _ uuid.UUID, hash string) error {
	s.rotatedHash = hash
	return nil
}

type stubSessions struct {
	attachedCustomer uuid.UUID
	attachedDevice   string
}

func (s *stubSessions) AttachCustomer(_ context.Context, deviceID string, customerID uuid.UUID) (*session.Session, error) {
	s.attachedDevice = deviceID
	s.attachedCustomer = customerID
	id := customerID.String()
	return &session.Session{SessionID: "sess-1", DeviceID: deviceID, CustomerID: &id}, nil
}

func codeCfg() config.LoginCodeConfig {
	// Minimal parameters keep the argon2id tests quick.
	return config.LoginCodeConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newService(t *testing.T, repo *stubRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(repo, sessions, codeCfg(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateReturnsPlaintextCodeOnce(t *testing.T) {
	repo := &stubRepo{}
	email := "Sam@Example.com"
	svc := newService(t, repo, &stubSessions{})

	created, err := svc.Create(context.Background(), CreateInput{Name: "Sam", Email: &email})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.LoginCode) != loginCodeLength {
		t.Fatalf("unexpected code length %d", len(created.LoginCode))
	}
	if created.Customer.LoginCodeHash == created.LoginCode {
		t.Fatalf("plaintext code must not be stored")
	}
	if repo.created.Email == nil || *repo.created.Email != "sam@example.com" {
		t.Fatalf("email must be normalized, got %v", repo.created.Email)
	}

	ok, err := security.VerifyLoginCode(created.LoginCode, created.Customer.LoginCodeHash)
	if err != nil || !ok {
		t.Fatalf("generated code must verify against stored hash: %v", err)
	}
}

func TestCreateRequiresIdentifier(t *testing.T) {
	svc := newService(t, &stubRepo{}, &stubSessions{})

	_, err := svc.Create(context.Background(), CreateInput{Name: "Sam"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginAttachesCustomer(t *testing.T) {
	code := "ABCD2345"
	hash, err := security.HashLoginCode(code, codeCfg())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	email := "sam@example.com"
	customer := &models.Customer{ID: uuid.New(), Name: "Sam", Email: &email, LoginCodeHash: hash}
	sessions := &stubSessions{}
	svc := newService(t, &stubRepo{byIdentifier: customer}, sessions)

	sess, err := svc.Login(context.Background(), LoginInput{
		DeviceID:   "device-1",
		Identifier: "sam@example.com",
		Code:       code,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sessions.attachedCustomer != customer.ID {
		t.Fatalf("customer not attached to session")
	}
	if sess.CustomerID == nil || *sess.CustomerID != customer.ID.String() {
		t.Fatalf("session missing customer id")
	}
}

func TestLoginWrongCode(t *testing.T) {
	hash, _ := security.HashLoginCode("ABCD2345", codeCfg())
	customer := &models.Customer{ID: uuid.New(), LoginCodeHash: hash}
	svc := newService(t, &stubRepo{byIdentifier: customer}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{
		DeviceID:   "device-1",
		Identifier: "sam@example.com",
		Code:       "WRONG234",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownIdentifierLooksTheSame(t *testing.T) {
	svc := newService(t, &stubRepo{}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{
		DeviceID:   "device-1",
		Identifier: "nobody@example.com",
		Code:       "ABCD2345",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unknown identifier must mirror a wrong code, got %v", err)
	}
}

func TestRotateLoginCode(t *testing.T) {
	oldHash, _ := security.HashLoginCode("OLDC2345", codeCfg())
	customer := &models.Customer{ID: uuid.New(), Name: "Sam", LoginCodeHash: oldHash}
	repo := &stubRepo{byID: customer}
	svc := newService(t, repo, &stubSessions{})

	rotated, err := svc.RotateLoginCode(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if repo.rotatedHash == "" || repo.rotatedHash == oldHash {
		t.Fatalf("hash must be replaced")
	}
	ok, err := security.VerifyLoginCode(rotated.LoginCode, repo.rotatedHash)
	if err != nil || !ok {
		t.Fatalf("new code must verify: %v", err)
	}
	if ok, _ := security.VerifyLoginCode("OLDC2345", repo.rotatedHash); ok {
		t.Fatalf("old code must stop working")
	}
}
