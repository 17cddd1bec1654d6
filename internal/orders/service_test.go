package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
)

type stubRepo struct {
	order         *models.Order
	rows          []models.Order
	total         int64
	updated       bool
	updatedStatus enums.OrderStatus
}

func (s *stubRepo) Create(context.Context, *gorm.DB, *models.Order) error { return nil }

func (s *stubRepo) FindByID(context.Context, uuid.UUID) (*models.Order, error) {
	return s.order, nil
}

func (s *stubRepo) ListByStore(context.Context, uuid.UUID, enums.OrderStatus, int, int) ([]models.Order, int64, error) {
	return s.rows, s.total, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status enums.OrderStatus) (bool, error) {
	s.updatedStatus = status
	return s.updated, nil
}

func sampleOrder(sessionID string) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		SessionID:     sessionID,
		CustomerName:  "Walk-in Customer",
		PaymentMethod: enums.PaymentMethodPayAtPickup,
		Status:        enums.OrderStatusPending,
		DisplayNumber: 42,
		SubtotalCents: 2500,
		TaxCents:      325,
		TotalCents:    2825,
		Lines: []models.OrderLineItem{
			{ProductID: uuid.New(), Name: "Blue Dream", UnitPriceCents: 2500, Qty: 1, LineTotalCents: 2500},
		},
	}
}

func newService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo, config.KioskConfig{CountdownSeconds: 30, SessionTTL: 1})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestConfirmation(t *testing.T) {
	order := sampleOrder("sess-1")
	svc := newService(t, &stubRepo{order: order})

	conf, err := svc.Confirmation(context.Background(), order.ID, "sess-1", "en")
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}
	if conf.DisplayNumber != 42 {
		t.Fatalf("unexpected display number %d", conf.DisplayNumber)
	}
	if conf.Total != "28.25" || conf.Tax != "3.25" || conf.Subtotal != "25.00" {
		t.Fatalf("unexpected totals %s/%s/%s", conf.Subtotal, conf.Tax, conf.Total)
	}
	if conf.StatusLabel != "Order received" {
		t.Fatalf("unexpected status label %q", conf.StatusLabel)
	}
	if conf.PaymentLabel != "Pay at pickup" {
		t.Fatalf("unexpected payment label %q", conf.PaymentLabel)
	}
	if conf.PickupNote == "" || conf.CountdownSeconds != 30 {
		t.Fatalf("confirmation missing pickup note or countdown")
	}
	if len(conf.Items) != 1 || conf.Items[0].LineTotal != "25.00" {
		t.Fatalf("unexpected items %+v", conf.Items)
	}
}

func TestConfirmationLocalized(t *testing.T) {
	order := sampleOrder("sess-1")
	svc := newService(t, &stubRepo{order: order})

	conf, err := svc.Confirmation(context.Background(), order.ID, "sess-1", "fr")
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}
	if conf.StatusLabel != "Commande reçue" {
		t.Fatalf("expected french status label, got %q", conf.StatusLabel)
	}
}

func TestConfirmationForeignSessionLooksMissing(t *testing.T) {
	order := sampleOrder("sess-1")
	svc := newService(t, &stubRepo{order: order})

	_, err := svc.Confirmation(context.Background(), order.ID, "other-session", "en")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRejectsBadStatus(t *testing.T) {
	svc := newService(t, &stubRepo{})

	_, err := svc.List(context.Background(), ListInput{StoreID: uuid.New(), Status: "shipped"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListSummaries(t *testing.T) {
	order := sampleOrder("sess-1")
	svc := newService(t, &stubRepo{rows: []models.Order{*order}, total: 1})

	page, err := svc.List(context.Background(), ListInput{StoreID: uuid.New()})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Orders) != 1 || page.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Orders[0].ItemCount != 1 || page.Orders[0].Total != "28.25" {
		t.Fatalf("unexpected summary %+v", page.Orders[0])
	}
}

func TestUpdateStatus(t *testing.T) {
	order := sampleOrder("sess-1")
	repo := &stubRepo{order: order, updated: true}
	svc := newService(t, repo)

	summary, err := svc.UpdateStatus(context.Background(), order.ID, "ready")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if repo.updatedStatus != enums.OrderStatusReady {
		t.Fatalf("expected ready, got %s", repo.updatedStatus)
	}
	if summary.OrderID != order.ID.String() {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	svc := newService(t, &stubRepo{updated: false})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "ready")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
