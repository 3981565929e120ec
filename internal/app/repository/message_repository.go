package repository

import (
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

type MessageRepository interface {
	WithTx(tx *gorm.DB) MessageRepository
	Create(message *model.Message) error
	FindAll(status model.MessageStatus) ([]model.Message, error)
	FindByID(id uint) (*model.Message, error)
	UpdateStatus(id uint, status model.MessageStatus) error
	Delete(id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) WithTx(tx *gorm.DB) MessageRepository {
	return &messageRepository{db: tx}
}

func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		logger.Error("Failed to create message in database", err, map[string]interface{}{
			"email": message.Email,
		})
		return err
	}
	return nil
}

func (r *messageRepository) FindAll(status model.MessageStatus) ([]model.Message, error) {
	query := r.db.Model(&model.Message{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var messages []model.Message
	if err := query.Order("created_at DESC").Order("id DESC").Find(&messages).Error; err != nil {
		logger.Error("Failed to find messages in database", err)
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) FindByID(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) UpdateStatus(id uint, status model.MessageStatus) error {
	result := r.db.Model(&model.Message{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Message{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete message in database", result.Error, map[string]interface{}{
			"message_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
