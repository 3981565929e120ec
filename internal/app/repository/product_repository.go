package repository

import (
	"math"
	"strings"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
)

type ProductFilter struct {
	CategoryID *uint
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   bool
	Sort       ProductSort
	Limit      int
}

// AggregateDrift is a product whose stored rating/numReviews disagree with its reviews.
type AggregateDrift struct {
	ProductID    uint
	StoredRating float64
	StoredCount  int
	ActualRating float64
	ActualCount  int
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByIDForUpdate(id uint) (*model.Product, error)
	FindByIDsForUpdate(ids []uint) ([]model.Product, error)
	FindAll(filter ProductFilter) ([]model.Product, error)
	Update(product *model.Product, columns ...string) error
	Delete(id uint) error
	DecrementStock(id uint, quantity int) error
	RecomputeReviewAggregate(id uint) error
	FindAggregateDrift() ([]AggregateDrift, error)
	ClearCategory(categoryID uint) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Category").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Order("id DESC")
		}).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate row-locks the product for the rest of the transaction.
// SQLite ignores the locking clause; its single writer gives the same ordering.
func (r *productRepository) FindByIDForUpdate(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDsForUpdate row-locks every listed product in ascending id order, so
// two carts naming the same products can never lock them in opposite orders.
// Missing ids are simply absent from the result.
func (r *productRepository) FindByIDsForUpdate(ids []uint) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to lock products in database", err, map[string]interface{}{
			"product_ids": ids,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products in database", map[string]interface{}{
		"category_id": filter.CategoryID,
		"search":      filter.Search,
		"featured":    filter.Featured,
		"sort":        filter.Sort,
	})

	query := r.db.Model(&model.Product{}).Preload("Category")

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Featured {
		query = query.Where("featured = ?", true)
	}

	switch filter.Sort {
	case SortPriceAsc:
		query = query.Order("price ASC")
	case SortPriceDesc:
		query = query.Order("price DESC")
	default:
		query = query.Order("created_at DESC")
	}
	query = query.Order("id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}
	return products, nil
}

// editableProductColumns are the columns an admin edit may write. Rating and
// numReviews belong to RecomputeReviewAggregate.
var editableProductColumns = map[string]bool{
	"name":        true,
	"description": true,
	"price":       true,
	"image":       true,
	"images":      true,
	"category_id": true,
	"stock":       true,
	"featured":    true,
}

// Update writes only the named columns, so anything the edit did not touch
// (stock in particular) keeps what concurrent writers stored.
func (r *productRepository) Update(product *model.Product, columns ...string) error {
	selected := make([]string, 0, len(columns)+1)
	for _, column := range columns {
		if editableProductColumns[column] {
			selected = append(selected, column)
		}
	}
	if len(selected) == 0 {
		return nil
	}
	selected = append(selected, "updated_at")

	err := r.db.Model(product).Select(selected).Updates(product).Error
	if err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
			"columns":    selected,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product in database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock subtracts quantity in a single statement, flooring at zero.
func (r *productRepository) DecrementStock(id uint, quantity int) error {
	result := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("CASE WHEN stock > ? THEN stock - ? ELSE 0 END", quantity, quantity))
	if result.Error != nil {
		logger.Error("Failed to decrement product stock", result.Error, map[string]interface{}{
			"product_id": id,
			"quantity":   quantity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Product stock decremented", map[string]interface{}{
		"product_id": id,
		"quantity":   quantity,
	})
	return nil
}

const (
	reviewCountExpr  = "(SELECT COUNT(*) FROM product_reviews WHERE product_reviews.product_id = products.id)"
	reviewRatingExpr = "COALESCE((SELECT AVG(product_reviews.rating) FROM product_reviews WHERE product_reviews.product_id = products.id), 0)"
)

// RecomputeReviewAggregate derives numReviews and rating from the review table
// inside one UPDATE, so it never reads a stale review list into memory.
func (r *productRepository) RecomputeReviewAggregate(id uint) error {
	result := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"num_reviews": gorm.Expr(reviewCountExpr),
			"rating":      gorm.Expr(reviewRatingExpr),
		})
	if result.Error != nil {
		logger.Error("Failed to recompute review aggregate", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) FindAggregateDrift() ([]AggregateDrift, error) {
	var rows []struct {
		ID           uint
		Rating       float64
		NumReviews   int
		ActualCount  int
		ActualRating float64
	}
	err := r.db.Model(&model.Product{}).
		Select("products.id, products.rating, products.num_reviews, " +
			reviewCountExpr + " AS actual_count, " +
			reviewRatingExpr + " AS actual_rating").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to scan review aggregates", err)
		return nil, err
	}

	var drift []AggregateDrift
	for _, row := range rows {
		if row.NumReviews == row.ActualCount && math.Abs(row.Rating-row.ActualRating) < 1e-9 {
			continue
		}
		drift = append(drift, AggregateDrift{
			ProductID:    row.ID,
			StoredRating: row.Rating,
			StoredCount:  row.NumReviews,
			ActualRating: row.ActualRating,
			ActualCount:  row.ActualCount,
		})
	}
	return drift, nil
}

// ClearCategory moves every product of categoryID, soft-deleted ones included,
// to uncategorized.
func (r *productRepository) ClearCategory(categoryID uint) (int64, error) {
	result := r.db.Unscoped().Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil)
	if result.Error != nil {
		logger.Error("Failed to clear product category", result.Error, map[string]interface{}{
			"category_id": categoryID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
