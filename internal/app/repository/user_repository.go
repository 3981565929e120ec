package repository

import (
	"strings"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	UpdatePassword(id uint, passwordHash string) error
	Count() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively; emails are stored lowercased.
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	err := r.db.Model(user).Select("name", "email", "image").Updates(user).Error
	if err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) UpdatePassword(id uint, passwordHash string) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
