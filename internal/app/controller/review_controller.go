package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeheartcreation/shop-backend/internal/app/service"
	"github.com/homeheartcreation/shop-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type AddReviewRequest struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview posts a public review and refreshes the product rating
// POST /api/products/:id/reviews
func (ctrl *ReviewController) AddReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := ctrl.reviewService.AddReview(productID, service.AddReviewInput{
		Name:    req.Name,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err, "Add review")
		return
	}

	middleware.RecordReviewSubmitted()
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review added",
		"review":  review,
	})
}

// ListAllReviews returns every review across products, newest first
// GET /api/products/reviews/all
func (ctrl *ReviewController) ListAllReviews(c *gin.Context) {
	reviews, err := ctrl.reviewService.ListAllReviews()
	if err != nil {
		respondError(c, err, "List reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DeleteReview
// DELETE /api/products/:id/reviews/:reviewId
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "reviewId")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(productID, reviewID); err != nil {
		respondError(c, err, "Delete review")
		return
	}
	messageResponse(c, "Review removed")
}
