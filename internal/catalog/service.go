package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
	pkgerrors "github.com/herbpoint/kiosk-backend/pkg/errors"
	"github.com/herbpoint/kiosk-backend/pkg/pagination"
	"github.com/herbpoint/kiosk-backend/pkg/types"
)

type productsRepository interface {
	List(ctx context.Context, opts ListOptions) ([]models.Product, int64, error)
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error)
	Facets(ctx context.Context, storeID uuid.UUID) (*FacetSet, error)
}

// BrowseInput carries raw browse parameters; Sort and QuickFilter arrive
// as query strings and are validated here.
type BrowseInput struct {
	StoreID     uuid.UUID
	Category    string
	Subcategory string
	StrainType  string
	Size        string
	QuickFilter string
	Search      string
	Sort        string
	Page        int
	PageSize    int
}

// ProductView is the catalog card shape the kiosk renders.
type ProductView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	StrainType  *string  `json:"strainType,omitempty"`
	Size        *string  `json:"size,omitempty"`
	PriceCents  int      `json:"priceCents"`
	Price       string   `json:"price"`
	THCPercent  *float64 `json:"thcPercent,omitempty"`
	CBDPercent  *float64 `json:"cbdPercent,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	QuickTags   []string `json:"quickTags"`
}

// BrowsePage is one page of catalog results.
type BrowsePage struct {
	Products   []ProductView `json:"products"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalRows  int64         `json:"totalRows"`
	TotalPages int           `json:"totalPages"`
	Sort       string        `json:"sort"`
}

// FacetValue is one selectable filter value with its product count.
type FacetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// SubcategoryFacet scopes a subcategory value to its parent category.
type SubcategoryFacet struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	Count    int64  `json:"count"`
}

// FilterUniverse is everything the filter drawer can offer, mined from
// the store's live inventory rather than hardcoded.
type FilterUniverse struct {
	Categories    []FacetValue       `json:"categories"`
	Subcategories []SubcategoryFacet `json:"subcategories"`
	StrainTypes   []FacetValue       `json:"strainTypes"`
	Sizes         []FacetValue       `json:"sizes"`
	QuickFilters  []string           `json:"quickFilters"`
	SortKeys      []string           `json:"sortKeys"`
}

// Service exposes catalog browsing to the kiosk.
type Service interface {
	Browse(ctx context.Context, input BrowseInput) (*BrowsePage, error)
	GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductView, error)
	GetFilters(ctx context.Context, storeID uuid.UUID) (*FilterUniverse, error)
}

type service struct {
	repo productsRepository
}

// NewService builds the catalog service.
func NewService(repo productsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Browse(ctx context.Context, input BrowseInput) (*BrowsePage, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	sort, err := enums.ParseSortKey(input.Sort)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort")
	}

	var quickFilter enums.QuickFilter
	if input.QuickFilter != "" {
		quickFilter, err = enums.ParseQuickFilter(input.QuickFilter)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quick filter")
		}
	}

	page := pagination.NormalizePage(input.Page)
	pageSize := pagination.NormalizePageSize(input.PageSize)

	products, total, err := s.repo.List(ctx, ListOptions{
		StoreID:     input.StoreID,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		StrainType:  input.StrainType,
		Size:        input.Size,
		QuickFilter: quickFilter,
		Search:      input.Search,
		Sort:        sort,
		Offset:      pagination.Offset(page, pageSize),
		Limit:       pageSize,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "browse catalog")
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, ToProductView(&products[i]))
	}

	return &BrowsePage{
		Products:   views,
		Page:       page,
		PageSize:   pageSize,
		TotalRows:  total,
		TotalPages: pagination.TotalPages(total, pageSize),
		Sort:       sort.String(),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductView, error) {
	if storeID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store and product ids are required")
	}

	product, err := s.repo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	view := ToProductView(product)
	return &view, nil
}

func (s *service) GetFilters(ctx context.Context, storeID uuid.UUID) (*FilterUniverse, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	facets, err := s.repo.Facets(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load filters")
	}

	sizes := make([]string, 0, len(facets.Sizes))
	counts := make(map[string]int64, len(facets.Sizes))
	for _, row := range facets.Sizes {
		sizes = append(sizes, row.Value)
		counts[row.Value] = row.Count
	}
	SortSizes(sizes)

	universe := &FilterUniverse{
		Categories:    toFacetValues(facets.Categories),
		Subcategories: toSubcategoryFacets(facets.Subcategories),
		StrainTypes:   toFacetValues(facets.StrainTypes),
		Sizes:         make([]FacetValue, 0, len(sizes)),
		QuickFilters: []string{
			enums.QuickFilterTrending.String(),
			enums.QuickFilterNewArrivals.String(),
			enums.QuickFilterStaffPicks.String(),
			enums.QuickFilterHighTHC.String(),
		},
		SortKeys: []string{
			enums.SortKeyPopular.String(),
			enums.SortKeyName.String(),
			enums.SortKeyPriceAsc.String(),
			enums.SortKeyPriceDesc.String(),
			enums.SortKeyTHCDesc.String(),
			enums.SortKeyCBDDesc.String(),
			enums.SortKeySizeDesc.String(),
		},
	}
	for _, size := range sizes {
		universe.Sizes = append(universe.Sizes, FacetValue{Value: size, Count: counts[size]})
	}
	return universe, nil
}

// ToProductView maps a product row to its kiosk card shape.
func ToProductView(p *models.Product) ProductView {
	tags := make([]string, len(p.QuickTags))
	copy(tags, p.QuickTags)
	return ProductView{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		StrainType:  p.StrainType,
		Size:        p.Size,
		PriceCents:  p.PriceCents,
		Price:       types.FormatMoney(types.CentsToDecimal(p.PriceCents)),
		THCPercent:  p.THCPercent,
		CBDPercent:  p.CBDPercent,
		ImageURL:    p.ImageURL,
		QuickTags:   tags,
	}
}

func toFacetValues(rows []FacetRow) []FacetValue {
	values := make([]FacetValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, FacetValue{Value: row.Value, Count: row.Count})
	}
	return values
}

func toSubcategoryFacets(rows []SubcategoryRow) []SubcategoryFacet {
	values := make([]SubcategoryFacet, 0, len(rows))
	for _, row := range rows {
		values = append(values, SubcategoryFacet{Category: row.Category, Value: row.Value, Count: row.Count})
	}
	return values
}
