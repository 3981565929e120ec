package service

import (
	"errors"
	"strings"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	apperrors "github.com/homeheartcreation/shop-backend/internal/errors"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name        *string
	Description *string
	Image       *string
}

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	CreateCategory(input CategoryInput) (*model.Category, error)
	UpdateCategory(id uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	db           *gorm.DB
}

func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, db *gorm.DB) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		db:           db,
	}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// translateCategoryWrite turns a unique-name violation into ErrCategoryNameExists.
func translateCategoryWrite(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.ParseError(err, "category").Code == apperrors.CategoryNameExists {
		return ErrCategoryNameExists
	}
	return err
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.Category, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, newValidationError("name", "is required")
	}

	category := &model.Category{Name: strings.TrimSpace(*input.Name)}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Image != nil {
		category.Image = *input.Image
	}

	if err := translateCategoryWrite(s.categoryRepo.Create(category)); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *categoryService) UpdateCategory(id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, newValidationError("name", "is required")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Image != nil {
		category.Image = *input.Image
	}

	if err := translateCategoryWrite(s.categoryRepo.Update(category)); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category and moves its products to
// uncategorized in one transaction.
func (s *categoryService) DeleteCategory(id uint) error {
	var moved int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		moved, err = s.productRepo.WithTx(tx).ClearCategory(id)
		if err != nil {
			return err
		}
		if err := s.categoryRepo.WithTx(tx).Delete(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id":        id,
		"products_moved_out": moved,
	})
	return nil
}
