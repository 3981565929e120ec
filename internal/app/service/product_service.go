package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const FeaturedProductLimit = 8

type ProductListOptions struct {
	Category string // id or case-insensitive name
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Featured bool
	Sort     string
}

// ProductInput holds admin edits. Nil fields are left unchanged on update.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Images      []string
	CategoryID  *uint // pointer to 0 clears the category
	Stock       *int
	Featured    *bool
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, error)
	GetFeaturedProducts() ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, error) {
	filter := repository.ProductFilter{
		Search:   opts.Search,
		MinPrice: opts.MinPrice,
		MaxPrice: opts.MaxPrice,
		Featured: opts.Featured,
		Sort:     repository.ProductSort(opts.Sort),
	}

	if category := strings.TrimSpace(opts.Category); category != "" {
		id, err := s.resolveCategory(category)
		if err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return []model.Product{}, nil
			}
			return nil, err
		}
		filter.CategoryID = &id
	}

	products, err := s.productRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count":    len(products),
		"category": opts.Category,
		"search":   opts.Search,
	})
	return products, nil
}

func (s *productService) resolveCategory(category string) (uint, error) {
	if id, err := strconv.ParseUint(category, 10, 64); err == nil {
		return uint(id), nil
	}
	found, err := s.categoryRepo.FindByName(category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCategoryNotFound
		}
		return 0, err
	}
	return found.ID, nil
}

func (s *productService) GetFeaturedProducts() ([]model.Product, error) {
	return s.productRepo.FindAll(repository.ProductFilter{
		Featured: true,
		Limit:    FeaturedProductLimit,
	})
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// applyInput copies the set fields of input onto product and returns the
// columns it changed.
func (s *productService) applyInput(product *model.Product, input ProductInput) ([]string, error) {
	var columns []string
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, newValidationError("name", "is required")
		}
		product.Name = name
		columns = append(columns, "name")
	}
	if input.Description != nil {
		product.Description = *input.Description
		columns = append(columns, "description")
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, newRangeError("price", "must not be negative")
		}
		product.Price = *input.Price
		columns = append(columns, "price")
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, newRangeError("stock", "must not be negative")
		}
		product.Stock = *input.Stock
		columns = append(columns, "stock")
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
		columns = append(columns, "featured")
	}
	if input.Images != nil {
		images := make([]string, 0, len(input.Images))
		for _, img := range input.Images {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}
		if len(images) == 0 {
			return nil, ErrProductImageRequired
		}
		product.Images = images
		product.Image = images[0]
		columns = append(columns, "images", "image")
	}
	if input.CategoryID != nil {
		if *input.CategoryID == 0 {
			product.CategoryID = nil
		} else {
			if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, err
			}
			id := *input.CategoryID
			product.CategoryID = &id
		}
		columns = append(columns, "category_id")
	}
	return columns, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	if input.Name == nil {
		return nil, newValidationError("name", "is required")
	}
	if input.Price == nil {
		return nil, newValidationError("price", "is required")
	}
	if len(input.Images) == 0 {
		return nil, ErrProductImageRequired
	}

	product := &model.Product{}
	if _, err := s.applyInput(product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return s.GetProductByID(product.ID)
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	columns, err := s.applyInput(product, input)
	if err != nil {
		return nil, err
	}
	product.Category = nil
	product.Reviews = nil

	if err := s.productRepo.Update(product, columns...); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"columns":    columns,
	})
	return s.GetProductByID(id)
}

func (s *productService) DeleteProduct(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
