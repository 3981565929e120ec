package repository

import (
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	Create(notification *model.Notification) error
	FindRecent(limit int) ([]model.Notification, error)
	CountUnread() (int64, error)
	MarkAsRead(id uint) error
	MarkAllAsRead() (int64, error)
	Delete(id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		logger.Error("Failed to create notification in database", err, map[string]interface{}{
			"type": notification.Type,
		})
		return err
	}
	return nil
}

// FindRecent returns at most limit notifications, newest first.
func (r *notificationRepository) FindRecent(limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Notification{}).Where("is_read = ?", false).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(id uint) error {
	result := r.db.Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllAsRead flips every unread notification in one statement.
func (r *notificationRepository) MarkAllAsRead() (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	if result.Error != nil {
		logger.Error("Failed to mark notifications as read", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
