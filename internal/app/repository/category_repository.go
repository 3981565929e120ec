package repository

import (
	"strings"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName matches case-insensitively.
func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	err := r.db.Model(category).
		Select("name", "description", "image").
		Updates(category).Error
	if err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Category{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete category in database", result.Error, map[string]interface{}{
			"category_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
