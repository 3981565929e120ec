package service

import (
	"errors"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	DefaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type NotificationService interface {
	ListRecent(limit int) ([]model.Notification, error)
	UnreadCount() (int64, error)
	MarkRead(id uint) error
	MarkAllRead() (int64, error)
	Delete(id uint) error
	Notify(notificationType model.NotificationType, title, message, link string) (*model.Notification, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListRecent(limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return s.repo.FindRecent(limit)
}

func (s *notificationService) UnreadCount() (int64, error) {
	return s.repo.CountUnread()
}

func (s *notificationService) MarkRead(id uint) error {
	if err := s.repo.MarkAsRead(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead() (int64, error) {
	updated, err := s.repo.MarkAllAsRead()
	if err != nil {
		return 0, err
	}

	logger.Info("Notifications marked as read", map[string]interface{}{
		"updated": updated,
	})
	return updated, nil
}

func (s *notificationService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// Notify appends an entry to the feed outside any other transaction.
func (s *notificationService) Notify(notificationType model.NotificationType, title, message, link string) (*model.Notification, error) {
	notification := &model.Notification{
		Type:    notificationType,
		Title:   title,
		Message: message,
		Link:    link,
	}
	if err := s.repo.Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}
