package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	pkgredis "github.com/herbpoint/kiosk-backend/pkg/redis"
	"github.com/herbpoint/kiosk-backend/pkg/types"
)

const (
	// MaxQtyPerLine caps a single line's quantity.
	MaxQtyPerLine = 99
	// MaxLines caps how many lines a cart can hold.
	MaxLines = 50
)

type cartStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type productFinder interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// QuoteLine is a priced cart line.
type QuoteLine struct {
	LineID         string  `json:"lineId"`
	ProductID      string  `json:"productId"`
	Name           string  `json:"name"`
	Size           *string `json:"size,omitempty"`
	ImageURL       *string `json:"imageUrl,omitempty"`
	UnitPriceCents int     `json:"unitPriceCents"`
	UnitPrice      string  `json:"unitPrice"`
	Qty            int     `json:"qty"`
	LineTotalCents int     `json:"lineTotalCents"`
	LineTotal      string  `json:"lineTotal"`
}

// Quote is the cart with totals computed against the store's tax rate.
// Totals always satisfy total = subtotal + tax.
type Quote struct {
	SessionID     string      `json:"sessionId"`
	Lines         []QuoteLine `json:"lines"`
	ItemCount     int         `json:"itemCount"`
	SubtotalCents int         `json:"subtotalCents"`
	Subtotal      string      `json:"subtotal"`
	TaxRate       string      `json:"taxRate"`
	TaxCents      int         `json:"taxCents"`
	Tax           string      `json:"tax"`
	TotalCents    int         `json:"totalCents"`
	Total         string      `json:"total"`
	Version       int64       `json:"version"`
}

// Service owns cart state and pricing for kiosk sessions.
type Service interface {
	Get(ctx context.Context, sessionID, storeID string) (*Quote, error)
	AddItem(ctx context.Context, sessionID, storeID string, productID uuid.UUID, qty int) (*Quote, error)
	UpdateItemQty(ctx context.Context, sessionID, storeID, lineID string, qty int) (*Quote, error)
	RemoveItem(ctx context.Context, sessionID, storeID, lineID string) (*Quote, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store    cartStore
	products productFinder
	stores   storeFinder
	ttl      time.Duration
}

// NewService builds the cart service.
func NewService(store cartStore, products productFinder, stores storeFinder, kioskCfg config.KioskConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("stores repository required")
	}
	if kioskCfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &service{
		store:    store,
		products: products,
		stores:   stores,
		ttl:      kioskCfg.SessionTTL,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID, storeID string) (*Quote, error) {
	cart, err := s.load(ctx, sessionID, storeID)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

func (s *service) AddItem(ctx context.Context, sessionID, storeID string, productID uuid.UUID, qty int) (*Quote, error) {
	if qty < 1 || qty > MaxQtyPerLine {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("qty must be between 1 and %d", MaxQtyPerLine))
	}

	storeUUID, err := uuid.Parse(storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}

	product, err := s.products.FindByID(ctx, storeUUID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not available")
	}

	cart, err := s.load(ctx, sessionID, storeID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) >= MaxLines {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is full")
	}

	// Every add is a new line. The unit price is snapshotted so a later
	// catalog price change does not silently reprice the cart.
	cart.NextLineSeq++
	cart.Lines = append(cart.Lines, Line{
		LineID:         fmt.Sprintf("%s-%d", product.ID, cart.NextLineSeq),
		ProductID:      product.ID.String(),
		Name:           product.Name,
		Size:           product.Size,
		ImageURL:       product.ImageURL,
		UnitPriceCents: product.PriceCents,
		Qty:            qty,
	})

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

func (s *service) UpdateItemQty(ctx context.Context, sessionID, storeID, lineID string, qty int) (*Quote, error) {
	if qty < 0 || qty > MaxQtyPerLine {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("qty must be between 0 and %d", MaxQtyPerLine))
	}

	cart, err := s.load(ctx, sessionID, storeID)
	if err != nil {
		return nil, err
	}

	idx := findLine(cart, lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	// Quantity zero removes the line.
	if qty == 0 {
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	} else {
		cart.Lines[idx].Qty = qty
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, sessionID, storeID, lineID string) (*Quote, error) {
	cart, err := s.load(ctx, sessionID, storeID)
	if err != nil {
		return nil, err
	}

	idx := findLine(cart, lineID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Del(ctx, s.store.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, sessionID, storeID string) (*Cart, error) {
	raw, err := s.store.Get(ctx, s.store.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return &Cart{SessionID: sessionID, StoreID: storeID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return &cart, nil
}

func (s *service) save(ctx context.Context, cart *Cart) error {
	cart.Version++
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(cart.SessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func (s *service) price(ctx context.Context, cart *Cart) (*Quote, error) {
	storeUUID, err := uuid.Parse(cart.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid cart store id")
	}

	store, err := s.stores.FindByID(ctx, storeUUID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	return PriceCart(cart, store.TaxRate), nil
}

// PriceCart computes the quote for a cart at the given tax rate. Tax is
// rounded half up to the cent; the total is derived as subtotal plus tax
// so the displayed figures always reconcile.
func PriceCart(cart *Cart, taxRate decimal.Decimal) *Quote {
	lines := make([]QuoteLine, 0, len(cart.Lines))
	subtotalCents := 0
	for _, line := range cart.Lines {
		lineTotal := line.UnitPriceCents * line.Qty
		subtotalCents += lineTotal
		lines = append(lines, QuoteLine{
			LineID:         line.LineID,
			ProductID:      line.ProductID,
			Name:           line.Name,
			Size:           line.Size,
			ImageURL:       line.ImageURL,
			UnitPriceCents: line.UnitPriceCents,
			UnitPrice:      types.FormatMoney(types.CentsToDecimal(line.UnitPriceCents)),
			Qty:            line.Qty,
			LineTotalCents: lineTotal,
			LineTotal:      types.FormatMoney(types.CentsToDecimal(lineTotal)),
		})
	}

	subtotal := types.CentsToDecimal(subtotalCents)
	taxCents := types.DecimalToCents(subtotal.Mul(taxRate))
	totalCents := subtotalCents + taxCents

	return &Quote{
		SessionID:     cart.SessionID,
		Lines:         lines,
		ItemCount:     cart.ItemCount(),
		SubtotalCents: subtotalCents,
		Subtotal:      types.FormatMoney(subtotal),
		TaxRate:       taxRate.String(),
		TaxCents:      taxCents,
		Tax:           types.FormatMoney(types.CentsToDecimal(taxCents)),
		TotalCents:    totalCents,
		Total:         types.FormatMoney(types.CentsToDecimal(totalCents)),
		Version:       cart.Version,
	}
}

func findLine(cart *Cart, lineID string) int {
	for i, line := range cart.Lines {
		if line.LineID == lineID {
			return i
		}
	}
	return -1
}
