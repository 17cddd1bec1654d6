package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/api/responses"
	"github.com/herbpoint/kiosk-backend/api/validators"
	customerssvc "github.com/herbpoint/kiosk-backend/internal/customers"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// AdminCustomerCreate registers a returning customer and returns their
// plaintext login code exactly once.
func AdminCustomerCreate(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		var payload createCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), customerssvc.CreateInput{
			Name:  payload.Name,
			Email: payload.Email,
			Phone: payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCreatedCustomerResponse(created))
	}
}

// AdminCustomerGet returns one customer profile. The login code hash is
// never exposed.
func AdminCustomerGet(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customerID, err := parseCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCustomerResponse(customer))
	}
}

// AdminCustomerRotateCode invalidates the customer's login code and
// issues a new one.
func AdminCustomerRotateCode(svc customerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customerID, err := parseCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rotated, err := svc.RotateLoginCode(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCreatedCustomerResponse(rotated))
	}
}

func parseCustomerID(r *http.Request) (uuid.UUID, error) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return customerID, nil
}

type createCustomerRequest struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type createdCustomerResponse struct {
	Customer  customerResponse `json:"customer"`
	LoginCode string           `json:"login_code"`
}

func newCustomerResponse(customer *models.Customer) customerResponse {
	return customerResponse{
		ID:        customer.ID.String(),
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
	}
}

func newCreatedCustomerResponse(created *customerssvc.Created) createdCustomerResponse {
	return createdCustomerResponse{
		Customer:  newCustomerResponse(created.Customer),
		LoginCode: created.LoginCode,
	}
}
