package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/i18n"
	"github.com/herbpoint/kiosk-backend/pkg/pagination"
	"github.com/herbpoint/kiosk-backend/pkg/types"
)

type ordersRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, status enums.OrderStatus, limit, offset int) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (bool, error)
}

// ConfirmationItem is one purchased line on the confirmation screen.
type ConfirmationItem struct {
	Name           string `json:"name"`
	Qty            int    `json:"qty"`
	UnitPrice      string `json:"unitPrice"`
	LineTotal      string `json:"lineTotal"`
	LineTotalCents int    `json:"lineTotalCents"`
}

// Confirmation is the order confirmation screen payload. The display
// number, not the order uuid, is what the customer shows at the counter.
type Confirmation struct {
	OrderID          string             `json:"orderId"`
	DisplayNumber    int                `json:"displayNumber"`
	Status           string             `json:"status"`
	StatusLabel      string             `json:"statusLabel"`
	PaymentMethod    string             `json:"paymentMethod"`
	PaymentLabel     string             `json:"paymentLabel"`
	Items            []ConfirmationItem `json:"items"`
	Subtotal         string             `json:"subtotal"`
	Tax              string             `json:"tax"`
	Total            string             `json:"total"`
	TotalCents       int                `json:"totalCents"`
	PickupNote       string             `json:"pickupNote"`
	CountdownSeconds int                `json:"countdownSeconds"`
	PlacedAt         time.Time          `json:"placedAt"`
}

// OrderSummary is the admin-facing order row.
type OrderSummary struct {
	OrderID       string    `json:"orderId"`
	DisplayNumber int       `json:"displayNumber"`
	SessionID     string    `json:"sessionId"`
	CustomerName  string    `json:"customerName"`
	Status        string    `json:"status"`
	ItemCount     int       `json:"itemCount"`
	Total         string    `json:"total"`
	TotalCents    int       `json:"totalCents"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OrderPage is one page of admin order rows.
type OrderPage struct {
	Orders     []OrderSummary `json:"orders"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalRows  int64          `json:"totalRows"`
	TotalPages int            `json:"totalPages"`
}

// ListInput narrows the admin order listing.
type ListInput struct {
	StoreID  uuid.UUID
	Status   string
	Page     int
	PageSize int
}

// Service reads submitted orders for the kiosk confirmation screen and
// the store's back office.
type Service interface {
	Confirmation(ctx context.Context, orderID uuid.UUID, sessionID string, lang i18n.Language) (*Confirmation, error)
	List(ctx context.Context, input ListInput) (*OrderPage, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderSummary, error)
}

type service struct {
	repo      ordersRepository
	countdown int
}

// NewService builds the orders service.
func NewService(repo ordersRepository, kioskCfg config.KioskConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if kioskCfg.CountdownSeconds <= 0 {
		return nil, fmt.Errorf("countdown seconds must be positive")
	}
	return &service{repo: repo, countdown: kioskCfg.CountdownSeconds}, nil
}

func (s *service) Confirmation(ctx context.Context, orderID uuid.UUID, sessionID string, lang i18n.Language) (*Confirmation, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	// Sessions only see their own orders; a foreign order id looks the
	// same as a missing one.
	if order == nil || order.SessionID != sessionID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	items := make([]ConfirmationItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, ConfirmationItem{
			Name:           line.Name,
			Qty:            line.Qty,
			UnitPrice:      types.FormatMoney(types.CentsToDecimal(line.UnitPriceCents)),
			LineTotal:      types.FormatMoney(types.CentsToDecimal(line.LineTotalCents)),
			LineTotalCents: line.LineTotalCents,
		})
	}

	return &Confirmation{
		OrderID:          order.ID.String(),
		DisplayNumber:    order.DisplayNumber,
		Status:           order.Status.String(),
		StatusLabel:      i18n.T(lang, order.Status.TranslationKey()),
		PaymentMethod:    order.PaymentMethod.String(),
		PaymentLabel:     i18n.T(lang, "payment."+order.PaymentMethod.String()),
		Items:            items,
		Subtotal:         types.FormatMoney(types.CentsToDecimal(order.SubtotalCents)),
		Tax:              types.FormatMoney(types.CentsToDecimal(order.TaxCents)),
		Total:            types.FormatMoney(types.CentsToDecimal(order.TotalCents)),
		TotalCents:       order.TotalCents,
		PickupNote:       i18n.T(lang, "confirmation.pickup_note"),
		CountdownSeconds: s.countdown,
		PlacedAt:         order.CreatedAt,
	}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*OrderPage, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	var status enums.OrderStatus
	if input.Status != "" {
		parsed, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = parsed
	}

	page := pagination.NormalizePage(input.Page)
	pageSize := pagination.NormalizePageSize(input.PageSize)

	rows, total, err := s.repo.ListByStore(ctx, input.StoreID, status, pageSize, pagination.Offset(page, pageSize))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	summaries := make([]OrderSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummary(&rows[i]))
	}
	return &OrderPage{
		Orders:     summaries,
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: pagination.TotalPages(total, pageSize),
	}, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderSummary, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	summary := toSummary(order)
	return &summary, nil
}

func toSummary(order *models.Order) OrderSummary {
	itemCount := 0
	for _, line := range order.Lines {
		itemCount += line.Qty
	}
	return OrderSummary{
		OrderID:       order.ID.String(),
		DisplayNumber: order.DisplayNumber,
		SessionID:     order.SessionID,
		CustomerName:  order.CustomerName,
		Status:        order.Status.String(),
		ItemCount:     itemCount,
		Total:         types.FormatMoney(types.CentsToDecimal(order.TotalCents)),
		TotalCents:    order.TotalCents,
		CreatedAt:     order.CreatedAt,
	}
}
