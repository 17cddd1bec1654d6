package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/i18n"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
	"github.com/herbpoint/kiosk-backend/pkg/maps"
)

type storesRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type geocoder interface {
	ForwardGeocode(ctx context.Context, req maps.ForwardGeocodeRequest) ([]maps.GeocodeResult, error)
}

// CreateInput describes a new store. TaxRate is a decimal string like
// "0.13"; an empty value takes the platform default.
type CreateInput struct {
	Name               string
	AddressLine1       string
	City               string
	Province           string
	PostalCode         string
	Country            string
	Timezone           string
	TaxRate            string
	PickupInstructions *string
	Languages          []string
	Lat                float64
	Lng                float64
}

// UpdateInput carries the mutable store fields. Nil pointers leave the
// current value in place.
type UpdateInput struct {
	Name               *string
	AddressLine1       *string
	City               *string
	Province           *string
	PostalCode         *string
	Timezone           *string
	TaxRate            *string
	PickupInstructions *string
	Languages          []string
}

// Service manages retail locations for the back office and serves the
// address autocomplete used by its forms.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Store, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	SuggestAddresses(ctx context.Context, query string, limit int) ([]maps.GeocodeResult, error)
}

type service struct {
	repo           storesRepository
	geo            geocoder
	defaultTaxRate decimal.Decimal
	logg           *logger.Logger
}

// NewService builds the stores service. The geocoder is optional; without
// it, address autocomplete is unavailable and new stores keep whatever
// coordinates the request carried.
func NewService(repo storesRepository, geo geocoder, kioskCfg config.KioskConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	defaultRate, err := decimal.NewFromString(kioskCfg.DefaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid default tax rate: %w", err)
	}
	return &service{repo: repo, geo: geo, defaultTaxRate: defaultRate, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Store, error) {
	if input.Name == "" || input.AddressLine1 == "" || input.City == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, address and city are required")
	}

	taxRate := s.defaultTaxRate
	if input.TaxRate != "" {
		parsed, err := decimal.NewFromString(input.TaxRate)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tax rate")
		}
		if parsed.IsNegative() || parsed.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be in [0, 1)")
		}
		taxRate = parsed
	}

	languages, err := normalizeLanguages(input.Languages)
	if err != nil {
		return nil, err
	}

	store := &models.Store{
		Name:               input.Name,
		AddressLine1:       input.AddressLine1,
		City:               input.City,
		Province:           input.Province,
		PostalCode:         input.PostalCode,
		Country:            defaultString(input.Country, "CA"),
		Timezone:           defaultString(input.Timezone, "America/Toronto"),
		TaxRate:            taxRate,
		PickupInstructions: input.PickupInstructions,
		Languages:          languages,
		Lat:                input.Lat,
		Lng:                input.Lng,
		IsActive:           true,
	}

	// Fill in coordinates from the address when the request has none.
	if store.Lat == 0 && store.Lng == 0 && s.geo != nil {
		s.geocodeStore(ctx, store)
	}

	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return store, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

func (s *service) List(ctx context.Context) ([]models.Store, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Store, error) {
	store, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	addressChanged := false
	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.AddressLine1 != nil {
		store.AddressLine1 = *input.AddressLine1
		addressChanged = true
	}
	if input.City != nil {
		store.City = *input.City
		addressChanged = true
	}
	if input.Province != nil {
		store.Province = *input.Province
		addressChanged = true
	}
	if input.PostalCode != nil {
		store.PostalCode = *input.PostalCode
		addressChanged = true
	}
	if input.Timezone != nil {
		store.Timezone = *input.Timezone
	}
	if input.PickupInstructions != nil {
		store.PickupInstructions = input.PickupInstructions
	}
	if input.TaxRate != nil {
		parsed, err := decimal.NewFromString(*input.TaxRate)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tax rate")
		}
		if parsed.IsNegative() || parsed.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be in [0, 1)")
		}
		store.TaxRate = parsed
	}
	if input.Languages != nil {
		languages, err := normalizeLanguages(input.Languages)
		if err != nil {
			return nil, err
		}
		store.Languages = languages
	}

	if addressChanged && s.geo != nil {
		s.geocodeStore(ctx, store)
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return store, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate store")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return nil
}

func (s *service) SuggestAddresses(ctx context.Context, query string, limit int) ([]maps.GeocodeResult, error) {
	if s.geo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "address autocomplete not configured")
	}
	return s.geo.ForwardGeocode(ctx, maps.ForwardGeocodeRequest{
		Query:   query,
		Country: "CA",
		Limit:   limit,
	})
}

// geocodeStore resolves the store address to coordinates. Geocoding is
// best effort; a failure leaves the coordinates untouched.
func (s *service) geocodeStore(ctx context.Context, store *models.Store) {
	query := fmt.Sprintf("%s, %s, %s %s", store.AddressLine1, store.City, store.Province, store.PostalCode)
	results, err := s.geo.ForwardGeocode(ctx, maps.ForwardGeocodeRequest{
		Query:   query,
		Country: store.Country,
		Limit:   1,
	})
	if err != nil || len(results) == 0 {
		if s.logg != nil {
			s.logg.Warn(ctx, "store address geocoding failed")
		}
		return
	}
	store.Lat = results[0].Location.Latitude
	store.Lng = results[0].Location.Longitude
}

func normalizeLanguages(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return []string{string(i18n.DefaultLanguage)}, nil
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		lang, err := i18n.ParseLanguage(value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported language")
		}
		out = append(out, string(lang))
	}
	return out, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
