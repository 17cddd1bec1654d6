package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/internal/session"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
	"github.com/herbpoint/kiosk-backend/pkg/security"
)

// loginCodeLength is the length of generated pickup login codes.
const loginCodeLength = 8

type customersRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Customer, error)
	UpdateLoginCodeHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionAttacher interface {
	AttachCustomer(ctx context.Context, deviceID string, customerID uuid.UUID) (*session.Session, error)
}

// CreateInput describes a new customer. At least one of email or phone
// is required so the customer has a login identifier.
type CreateInput struct {
	Name  string
	Email *string
	Phone *string
}

// Created is a freshly registered customer. LoginCode is the plaintext
// code, returned exactly once; only its hash is stored.
type Created struct {
	Customer  *models.Customer `json:"customer"`
	LoginCode string           `json:"loginCode"`
}

// LoginInput is the kiosk login request.
type LoginInput struct {
	DeviceID   string
	Identifier string
	Code       string
}

// Service manages returning-customer identities and the kiosk login
// path that attaches one to a session.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Created, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Login(ctx context.Context, input LoginInput) (*session.Session, error)
	RotateLoginCode(ctx context.Context, id uuid.UUID) (*Created, error)
}

type service struct {
	repo     customersRepository
	sessions sessionAttacher
	codeCfg  config.LoginCodeConfig
	logg     *logger.Logger
}

// NewService builds the customers service.
func NewService(repo customersRepository, sessions sessionAttacher, codeCfg config.LoginCodeConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service required")
	}
	return &service{repo: repo, sessions: sessions, codeCfg: codeCfg, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Created, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !hasValue(input.Email) && !hasValue(input.Phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email or phone is required")
	}

	code, err := security.GenerateLoginCode(loginCodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate login code")
	}
	hash, err := security.HashLoginCode(code, s.codeCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash login code")
	}

	customer := &models.Customer{
		Name:          strings.TrimSpace(input.Name),
		Email:         normalizeIdentifier(input.Email),
		Phone:         normalizeIdentifier(input.Phone),
		LoginCodeHash: hash,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return &Created{Customer: customer, LoginCode: code}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

// Login verifies the identifier/code pair and attaches the customer to
// the device's session. An unknown identifier and a wrong code produce
// the same error so the kiosk cannot be used to probe for accounts.
func (s *service) Login(ctx context.Context, input LoginInput) (*session.Session, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))
	if identifier == "" || strings.TrimSpace(input.Code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifier and code are required")
	}

	customer, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyLoginCode(input.Code, customer.LoginCodeHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify login code")
	}
	if !ok {
		if s.logg != nil {
			s.logg.Warn(ctx, "customer login rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.sessions.AttachCustomer(ctx, input.DeviceID, customer.ID)
}

// RotateLoginCode issues a fresh code, invalidating the old one.
func (s *service) RotateLoginCode(ctx context.Context, id uuid.UUID) (*Created, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	code, err := security.GenerateLoginCode(loginCodeLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate login code")
	}
	hash, err := security.HashLoginCode(code, s.codeCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash login code")
	}
	if err := s.repo.UpdateLoginCodeHash(ctx, customer.ID, hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store login code")
	}
	customer.LoginCodeHash = hash
	return &Created{Customer: customer, LoginCode: code}, nil
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func normalizeIdentifier(s *string) *string {
	if !hasValue(s) {
		return nil
	}
	value := strings.ToLower(strings.TrimSpace(*s))
	return &value
}
