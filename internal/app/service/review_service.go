package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

const anonymousReviewer = "Anonymous"

type AddReviewInput struct {
	Name    string
	Rating  int
	Comment string
}

type ReviewService interface {
	AddReview(productID uint, input AddReviewInput) (*model.Review, error)
	DeleteReview(productID, reviewID uint) error
	ListAllReviews() ([]model.ReviewWithProduct, error)
	ReconcileAggregates() ([]repository.AggregateDrift, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, db *gorm.DB) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// AddReview stores the review and recomputes the product aggregate in the
// same transaction. The product row lock orders concurrent reviews.
func (s *reviewService) AddReview(productID uint, input AddReviewInput) (*model.Review, error) {
	if input.Rating < model.MinReviewRating || input.Rating > model.MaxReviewRating {
		return nil, ErrInvalidRating
	}
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, newValidationError("comment", "is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = anonymousReviewer
	}

	review := &model.Review{
		ProductID: productID,
		Name:      name,
		Rating:    input.Rating,
		Comment:   comment,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		if _, err := products.FindByIDForUpdate(productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			return err
		}
		return products.RecomputeReviewAggregate(productID)
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			logger.Error("Failed to add review", err, map[string]interface{}{
				"product_id": productID,
			})
		}
		return nil, err
	}

	logger.Info("Review added", map[string]interface{}{
		"product_id": productID,
		"review_id":  review.ID,
		"rating":     review.Rating,
	})
	return review, nil
}

func (s *reviewService) DeleteReview(productID, reviewID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		reviews := s.reviewRepo.WithTx(tx)

		if _, err := products.FindByIDForUpdate(productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		review, err := reviews.FindByID(reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}
		if review.ProductID != productID {
			return fmt.Errorf("%w: review %d does not belong to product %d", ErrReviewNotFound, reviewID, productID)
		}

		if err := reviews.Delete(reviewID); err != nil {
			return err
		}
		return products.RecomputeReviewAggregate(productID)
	})
	if err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"product_id": productID,
		"review_id":  reviewID,
	})
	return nil
}

func (s *reviewService) ListAllReviews() ([]model.ReviewWithProduct, error) {
	return s.reviewRepo.FindAllWithProduct()
}

// ReconcileAggregates repairs every product whose stored rating or review
// count disagrees with its reviews and returns what it found.
func (s *reviewService) ReconcileAggregates() ([]repository.AggregateDrift, error) {
	drift, err := s.productRepo.FindAggregateDrift()
	if err != nil {
		return nil, err
	}

	for _, d := range drift {
		logger.Warn("Review aggregate drift detected", map[string]interface{}{
			"product_id":    d.ProductID,
			"stored_rating": d.StoredRating,
			"stored_count":  d.StoredCount,
			"actual_rating": d.ActualRating,
			"actual_count":  d.ActualCount,
		})
		if err := s.productRepo.RecomputeReviewAggregate(d.ProductID); err != nil {
			return drift, err
		}
	}
	return drift, nil
}
