package repository

import (
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByProductID(productID uint) ([]model.Review, error)
	FindAllWithProduct() ([]model.ReviewWithProduct, error)
	Delete(id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(review *model.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"product_id": review.ProductID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByProductID(productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindAllWithProduct flattens every review of a live product, newest first.
func (r *reviewRepository) FindAllWithProduct() ([]model.ReviewWithProduct, error) {
	var reviews []model.ReviewWithProduct
	err := r.db.Model(&model.Review{}).
		Select("product_reviews.*, products.name AS product_name").
		Joins("JOIN products ON products.id = product_reviews.product_id AND products.deleted_at IS NULL").
		Order("product_reviews.created_at DESC").
		Order("product_reviews.id DESC").
		Scan(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews in database", err)
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Review{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete review in database", result.Error, map[string]interface{}{
			"review_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
