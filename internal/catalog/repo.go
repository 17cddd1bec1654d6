package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/herbpoint/kiosk-backend/pkg/db/models"
	"github.com/herbpoint/kiosk-backend/pkg/enums"
)

// HighTHCThreshold is the potency floor for the high THC quick filter,
// as a percentage.
const HighTHCThreshold = 20.0

// ListOptions narrows and orders a catalog listing. Zero values mean
// "no constraint" for the filter fields.
type ListOptions struct {
	StoreID     uuid.UUID
	Category    string
	Subcategory string
	StrainType  string
	Size        string
	QuickFilter enums.QuickFilter
	Search      string
	Sort        enums.SortKey
	Offset      int
	Limit       int
}

// Repository reads products with gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of active products for a store plus the total
// count of rows matching the same filters.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ? AND is_active", opts.StoreID)

	query = applyFilters(query, opts)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	var products []models.Product
	err := applySort(query, opts.Sort).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// FindByID returns a single active product, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ? AND is_active", id, storeID).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// FindByIDs returns the active products among the given ids, in no
// particular order.
func (r *Repository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active AND id IN ?", storeID, ids).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

// FacetRow is one distinct attribute value with its product count.
type FacetRow struct {
	Value string `gorm:"column:value"`
	Count int64  `gorm:"column:count"`
}

// Facets mines the active inventory of a store for the filter universe:
// distinct categories, subcategories per category, strain types, and sizes,
// each with counts.
func (r *Repository) Facets(ctx context.Context, storeID uuid.UUID) (*FacetSet, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("store_id = ? AND is_active", storeID)
	}

	var categories []FacetRow
	if err := base().
		Select("category AS value, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&categories).Error; err != nil {
		return nil, fmt.Errorf("category facets: %w", err)
	}

	var subcategories []SubcategoryRow
	if err := base().
		Select("category, subcategory AS value, COUNT(*) AS count").
		Group("category, subcategory").
		Order("category, subcategory").
		Scan(&subcategories).Error; err != nil {
		return nil, fmt.Errorf("subcategory facets: %w", err)
	}

	var strainTypes []FacetRow
	if err := base().
		Where("strain_type IS NOT NULL").
		Select("strain_type AS value, COUNT(*) AS count").
		Group("strain_type").
		Order("strain_type").
		Scan(&strainTypes).Error; err != nil {
		return nil, fmt.Errorf("strain type facets: %w", err)
	}

	var sizes []FacetRow
	if err := base().
		Where("size IS NOT NULL").
		Select("size AS value, COUNT(*) AS count").
		Group("size").
		Scan(&sizes).Error; err != nil {
		return nil, fmt.Errorf("size facets: %w", err)
	}

	return &FacetSet{
		Categories:    categories,
		Subcategories: subcategories,
		StrainTypes:   strainTypes,
		Sizes:         sizes,
	}, nil
}

// SubcategoryRow is a subcategory facet scoped to its parent category.
type SubcategoryRow struct {
	Category string `gorm:"column:category"`
	Value    string `gorm:"column:value"`
	Count    int64  `gorm:"column:count"`
}

// FacetSet is the raw facet material mined from inventory.
type FacetSet struct {
	Categories    []FacetRow
	Subcategories []SubcategoryRow
	StrainTypes   []FacetRow
	Sizes         []FacetRow
}

func applyFilters(query *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Subcategory != "" {
		query = query.Where("subcategory = ?", opts.Subcategory)
	}
	if opts.StrainType != "" {
		query = query.Where("strain_type = ?", opts.StrainType)
	}
	if opts.Size != "" {
		query = query.Where("size = ?", opts.Size)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("(name ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	switch opts.QuickFilter {
	case "":
	case enums.QuickFilterHighTHC:
		query = query.Where("thc_percent >= ?", HighTHCThreshold)
	default:
		query = query.Where("quick_tags @> ?", pq.StringArray{opts.QuickFilter.String()})
	}
	return query
}

// sizeOrderExpr extracts the leading numeric token of the size label so
// "3.5g" sorts between "1g" and "7g". Rows without a numeric size go last.
const sizeOrderExpr = `NULLIF(substring(size from '^[0-9]+\.?[0-9]*'), '')::numeric`

func applySort(query *gorm.DB, sort enums.SortKey) *gorm.DB {
	switch sort {
	case enums.SortKeyName:
		return query.Order("name ASC, id ASC")
	case enums.SortKeyPriceAsc:
		return query.Order("price_cents ASC, name ASC")
	case enums.SortKeyPriceDesc:
		return query.Order("price_cents DESC, name ASC")
	case enums.SortKeyTHCDesc:
		return query.Order("thc_percent DESC NULLS LAST, name ASC")
	case enums.SortKeyCBDDesc:
		return query.Order("cbd_percent DESC NULLS LAST, name ASC")
	case enums.SortKeySizeDesc:
		return query.Order(sizeOrderExpr + " DESC NULLS LAST, name ASC")
	default:
		return query.Order("popularity DESC, name ASC")
	}
}
