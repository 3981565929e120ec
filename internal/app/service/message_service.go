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

type SubmitMessageInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type MessageService interface {
	SubmitMessage(input SubmitMessageInput) (*model.Message, error)
	ListMessages(status string) ([]model.Message, error)
	GetMessage(id uint) (*model.Message, error)
	UpdateStatus(id uint, status string) (*model.Message, error)
	DeleteMessage(id uint) error
}

type messageService struct {
	messageRepo      repository.MessageRepository
	notificationRepo repository.NotificationRepository
	db               *gorm.DB
}

func NewMessageService(messageRepo repository.MessageRepository, notificationRepo repository.NotificationRepository, db *gorm.DB) MessageService {
	return &messageService{
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		db:               db,
	}
}

// SubmitMessage stores a contact submission and its admin notification together.
func (s *messageService) SubmitMessage(input SubmitMessageInput) (*model.Message, error) {
	message := &model.Message{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  model.MessageStatusUnread,
	}
	required := []struct {
		field string
		value string
	}{
		{"name", message.Name},
		{"email", message.Email},
		{"subject", message.Subject},
		{"message", message.Message},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, newValidationError(r.field, "is required")
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.messageRepo.WithTx(tx).Create(message); err != nil {
			return err
		}
		return s.notificationRepo.WithTx(tx).Create(&model.Notification{
			Type:    model.NotificationTypeMessage,
			Title:   "New Contact Message",
			Message: fmt.Sprintf("New message from %s: %s", message.Name, message.Subject),
			Link:    fmt.Sprintf("/messages/%d", message.ID),
		})
	})
	if err != nil {
		logger.Error("Failed to submit message", err, map[string]interface{}{
			"email": message.Email,
		})
		return nil, err
	}

	logger.Info("Contact message received", map[string]interface{}{
		"message_id": message.ID,
	})
	return message, nil
}

func parseMessageStatus(status string) (model.MessageStatus, error) {
	s := model.MessageStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMessageStatus, status)
	}
	return s, nil
}

func (s *messageService) ListMessages(status string) ([]model.Message, error) {
	var filter model.MessageStatus
	if strings.TrimSpace(status) != "" {
		parsed, err := parseMessageStatus(status)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	return s.messageRepo.FindAll(filter)
}

func (s *messageService) GetMessage(id uint) (*model.Message, error) {
	message, err := s.messageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return message, nil
}

func (s *messageService) UpdateStatus(id uint, status string) (*model.Message, error) {
	parsed, err := parseMessageStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.UpdateStatus(id, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return s.GetMessage(id)
}

func (s *messageService) DeleteMessage(id uint) error {
	if err := s.messageRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}
