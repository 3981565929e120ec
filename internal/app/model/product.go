package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices travel as JSON numbers, matching what the storefront sends.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Image       string          `json:"image"`                                   // primary image, first of Images
	Images      []string        `gorm:"type:text;serializer:json" json:"images"` // stored as a JSON array
	CategoryID  *uint           `gorm:"index" json:"categoryId"`                 // nil means uncategorized
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Featured    bool            `gorm:"default:false;index" json:"featured"`

	// Derived from Reviews. Only written by the review aggregate update.
	Rating     float64 `gorm:"not null;default:0" json:"rating"`
	NumReviews int     `gorm:"not null;default:0" json:"numReviews"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Reviews  []Review  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"reviews"`
}

func (Product) TableName() string {
	return "products"
}

// Review is owned by its product; the id only exists so an admin can remove it.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"productId"`
	Name      string    `gorm:"not null" json:"name"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Review) TableName() string {
	return "product_reviews"
}

// ReviewWithProduct is a review flattened with its product for the admin list.
type ReviewWithProduct struct {
	Review
	ProductName string `json:"productName"`
}
