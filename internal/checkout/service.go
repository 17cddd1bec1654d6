package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/internal/cart"
	"github.com/herbpoint/kiosk-backend/internal/session"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
)

// counterTTL keeps the daily order-number counter alive past midnight
// stragglers before Redis reclaims it.
const counterTTL = 48 * time.Hour

type cartService interface {
	Get(ctx context.Context, sessionID, storeID string) (*cart.Quote, error)
	Clear(ctx context.Context, sessionID string) error
}

type sessionService interface {
	Get(ctx context.Context, deviceID string) (*session.Session, error)
	EnterConfirmation(ctx context.Context, deviceID string) (*session.Session, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderCreator interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type orderNumberSource interface {
	NextOrderNumber(ctx context.Context, storeID, day string, ttl time.Duration) (int64, error)
}

type customerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type metricsRecorder interface {
	IncOrderSubmitted(storeID string)
	IncCheckoutFailed(storeID string)
}

// SubmitInput is the checkout request for the authenticated session.
type SubmitInput struct {
	DeviceID      string
	CustomerName  string
	CustomerEmail *string
	CustomerPhone *string
}

// Result is the submitted order, pared down to what the kiosk needs to
// route to the confirmation screen.
type Result struct {
	OrderID       string `json:"orderId"`
	DisplayNumber int    `json:"displayNumber"`
	Status        string `json:"status"`
	TotalCents    int    `json:"totalCents"`
	Total         string `json:"total"`
}

// Service converts a cart into a persisted order.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Result, error)
}

type service struct {
	carts     cartService
	sessions  sessionService
	tx        txRunner
	orders    orderCreator
	stores    storeFinder
	customers customerFinder
	numbers   orderNumberSource
	metrics   metricsRecorder
	logg      *logger.Logger
}

// NewService builds the checkout service.
func NewService(carts cartService, sessions sessionService, tx txRunner, orders orderCreator, stores storeFinder, customers customerFinder, numbers orderNumberSource, metrics metricsRecorder, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("order number source required")
	}
	return &service{
		carts:     carts,
		sessions:  sessions,
		tx:        tx,
		orders:    orders,
		stores:    stores,
		customers: customers,
		numbers:   numbers,
		metrics:   metrics,
		logg:      logg,
	}, nil
}

// Submit turns the session's cart into a pending order. The cart is
// cleared only after the order commits; any failure leaves the cart
// untouched so the customer can retry.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*Result, error) {
	sess, err := s.sessions.Get(ctx, input.DeviceID)
	if err != nil {
		return nil, err
	}

	quote, err := s.carts.Get(ctx, sess.SessionID, sess.StoreID)
	if err != nil {
		return nil, s.failed(sess.StoreID, err)
	}
	if len(quote.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	storeID, err := uuid.Parse(sess.StoreID)
	if err != nil {
		return nil, s.failed(sess.StoreID, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid session store id"))
	}
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, s.failed(sess.StoreID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store"))
	}
	if store == nil {
		return nil, s.failed(sess.StoreID, pkgerrors.New(pkgerrors.CodeNotFound, "store not found"))
	}

	order, err := s.buildOrder(ctx, sess, store, quote, input)
	if err != nil {
		return nil, s.failed(sess.StoreID, err)
	}

	displayNumber, err := s.numbers.NextOrderNumber(ctx, sess.StoreID, storeLocalDay(store, time.Now()), counterTTL)
	if err != nil {
		return nil, s.failed(sess.StoreID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number"))
	}
	order.DisplayNumber = int(displayNumber)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.orders.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, s.failed(sess.StoreID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order"))
	}

	// The order is committed; everything past this point is cleanup and
	// must not fail the checkout.
	if err := s.carts.Clear(ctx, sess.SessionID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "clear cart after checkout failed")
	}
	if _, err := s.sessions.EnterConfirmation(ctx, input.DeviceID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "enter confirmation state failed")
	}
	if s.metrics != nil {
		s.metrics.IncOrderSubmitted(sess.StoreID)
	}
	if s.logg != nil {
		lctx := s.logg.WithFields(ctx, map[string]any{
			"order_id":       order.ID.String(),
			"display_number": order.DisplayNumber,
			"total_cents":    order.TotalCents,
		})
		s.logg.Info(lctx, "order.submitted")
	}

	return &Result{
		OrderID:       order.ID.String(),
		DisplayNumber: order.DisplayNumber,
		Status:        order.Status.String(),
		TotalCents:    order.TotalCents,
		Total:         quote.Total,
	}, nil
}

func (s *service) buildOrder(ctx context.Context, sess *session.Session, store *models.Store, quote *cart.Quote, input SubmitInput) (*models.Order, error) {
	order := &models.Order{
		ID:            uuid.New(),
		StoreID:       store.ID,
		SessionID:     sess.SessionID,
		CustomerName:  "Walk-in Customer",
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		PaymentMethod: enums.PaymentMethodPayAtPickup,
		Status:        enums.OrderStatusPending,
		SubtotalCents: quote.SubtotalCents,
		TaxCents:      quote.TaxCents,
		TotalCents:    quote.TotalCents,
	}
	if input.CustomerName != "" {
		order.CustomerName = input.CustomerName
	}

	// A recognized customer fills in the contact details they logged in
	// with, unless the request overrides them.
	if sess.CustomerID != nil && s.customers != nil {
		customerID, err := uuid.Parse(*sess.CustomerID)
		if err == nil {
			customer, err := s.customers.FindByID(ctx, customerID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
			}
			if customer != nil {
				if input.CustomerName == "" && customer.Name != "" {
					order.CustomerName = customer.Name
				}
				if order.CustomerEmail == nil {
					order.CustomerEmail = customer.Email
				}
				if order.CustomerPhone == nil {
					order.CustomerPhone = customer.Phone
				}
			}
		}
	}

	for _, line := range quote.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid cart product id")
		}
		order.Lines = append(order.Lines, models.OrderLineItem{
			OrderID:        order.ID,
			ProductID:      productID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Qty:            line.Qty,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return order, nil
}

func (s *service) failed(storeID string, err error) error {
	if s.metrics != nil {
		s.metrics.IncCheckoutFailed(storeID)
	}
	return err
}

// storeLocalDay renders the current date in the store's timezone; the
// display-number counter resets on the store's midnight, not UTC's.
func storeLocalDay(store *models.Store, now time.Time) string {
	loc, err := time.LoadLocation(store.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}
