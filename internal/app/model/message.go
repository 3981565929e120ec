package model

import (
	"time"

	"gorm.io/gorm"
)

type MessageStatus string

const (
	MessageStatusUnread  MessageStatus = "unread"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusUnread, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

// Message is a storefront contact-form submission.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"not null" json:"email"`
	Subject   string         `gorm:"not null" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Status    MessageStatus  `gorm:"type:varchar(20);default:'unread';index" json:"status"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
