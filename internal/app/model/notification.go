package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "order"
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeSystem  NotificationType = "system"
)

// Notification is an admin feed entry. Created by the order and message flows, then only
// IsRead changes.
type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	Type      NotificationType `gorm:"type:varchar(20);not null;index" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Link      string           `json:"link"`
	IsRead    bool             `gorm:"default:false;index" json:"isRead"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
