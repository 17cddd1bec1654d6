package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/internal/cart"
	"github.com/herbpoint/kiosk-backend/internal/catalog"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	pkgredis "github.com/herbpoint/kiosk-backend/pkg/redis"
)

// candidatePoolSize bounds how many popular products each query pulls
// before exclusion filtering.
const candidatePoolSize = 50

type cartReader interface {
	Get(ctx context.Context, key string) (string, error)
	CartKey(sessionID string) string
}

type productsRepository interface {
	List(ctx context.Context, opts catalog.ListOptions) ([]models.Product, int64, error)
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
}

// Set is a recommendation response. CartVersion echoes the cart state
// the picks were computed against so the kiosk can discard stale sets.
type Set struct {
	CartVersion int64                 `json:"cartVersion"`
	Products    []catalog.ProductView `json:"products"`
}

// Service suggests products to pair with the current cart.
type Service interface {
	Recommend(ctx context.Context, sessionID string, storeID uuid.UUID, count int) (*Set, error)
}

type service struct {
	carts        cartReader
	products     productsRepository
	defaultCount int
}

// NewService builds the recommendations service.
func NewService(carts cartReader, products productsRepository, kioskCfg config.KioskConfig) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if kioskCfg.RecommendationCount <= 0 {
		return nil, fmt.Errorf("recommendation count must be positive")
	}
	return &service{
		carts:        carts,
		products:     products,
		defaultCount: kioskCfg.RecommendationCount,
	}, nil
}

// Recommend picks up to count products the cart does not already hold.
// Categories already in the cart are favored, weighted by how many units
// of each the cart holds; popular store-wide picks fill the remainder.
// An empty cart yields the store's most popular products.
func (s *service) Recommend(ctx context.Context, sessionID string, storeID uuid.UUID, count int) (*Set, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if count <= 0 {
		count = s.defaultCount
	}

	current, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	exclude := make(map[string]struct{}, len(current.Lines))
	for _, line := range current.Lines {
		exclude[line.ProductID] = struct{}{}
	}

	categories, err := s.cartCategories(ctx, storeID, current)
	if err != nil {
		return nil, err
	}

	picks := make([]models.Product, 0, count)
	seen := make(map[string]struct{}, count)

	for _, category := range categories {
		if len(picks) >= count {
			break
		}
		candidates, _, err := s.products.List(ctx, catalog.ListOptions{
			StoreID:  storeID,
			Category: category,
			Sort:     enums.SortKeyPopular,
			Limit:    candidatePoolSize,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category candidates")
		}
		picks = appendPicks(picks, candidates, exclude, seen, count)
	}

	if len(picks) < count {
		candidates, _, err := s.products.List(ctx, catalog.ListOptions{
			StoreID: storeID,
			Sort:    enums.SortKeyPopular,
			Limit:   candidatePoolSize,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load popular candidates")
		}
		picks = appendPicks(picks, candidates, exclude, seen, count)
	}

	views := make([]catalog.ProductView, 0, len(picks))
	for i := range picks {
		views = append(views, catalog.ToProductView(&picks[i]))
	}
	return &Set{CartVersion: current.Version, Products: views}, nil
}

func (s *service) loadCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	raw, err := s.carts.Get(ctx, s.carts.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return &cart.Cart{SessionID: sessionID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	var current cart.Cart
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return &current, nil
}

// cartCategories returns the cart's product categories ordered by unit
// count, heaviest first.
func (s *service) cartCategories(ctx context.Context, storeID uuid.UUID, current *cart.Cart) ([]string, error) {
	if len(current.Lines) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(current.Lines))
	for _, raw := range current.ProductIDs() {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	categoryByProduct := make(map[string]string, len(products))
	for _, p := range products {
		categoryByProduct[p.ID.String()] = p.Category
	}

	weights := make(map[string]int)
	for _, line := range current.Lines {
		if category, ok := categoryByProduct[line.ProductID]; ok {
			weights[category] += line.Qty
		}
	}

	categories := make([]string, 0, len(weights))
	for category := range weights {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if weights[categories[i]] != weights[categories[j]] {
			return weights[categories[i]] > weights[categories[j]]
		}
		return categories[i] < categories[j]
	})
	return categories, nil
}

func appendPicks(picks, candidates []models.Product, exclude, seen map[string]struct{}, count int) []models.Product {
	for _, candidate := range candidates {
		if len(picks) >= count {
			break
		}
		id := candidate.ID.String()
		if _, ok := exclude[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		picks = append(picks, candidate)
	}
	return picks
}
