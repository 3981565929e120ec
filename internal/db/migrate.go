package db

import (
	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Review{},
		&model.Order{},
		&model.OrderItem{},
		&model.Message{},
		&model.Notification{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(gdb *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := gdb.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// DefaultCategories are created by the seed command when missing.
var DefaultCategories = []model.Category{
	{Name: "Home Decor", Description: "Beautiful handmade items to decorate your home"},
	{Name: "Handmade Gifts", Description: "Unique handcrafted gifts for your loved ones"},
	{Name: "Wall Art", Description: "Artistic wall hangings and decorations"},
	{Name: "Crafts", Description: "Various handmade craft items"},
	{Name: "Candles & Holders", Description: "Handcrafted candles and candle holders"},
	{Name: "Kitchen & Dining", Description: "Handmade kitchen and dining accessories"},
}

// SeedCategories creates any default category that does not exist yet.
func SeedCategories(gdb *gorm.DB) (int, error) {
	created := 0
	for _, c := range DefaultCategories {
		category := c
		result := gdb.Where(model.Category{Name: category.Name}).
			Attrs(model.Category{Description: category.Description}).
			FirstOrCreate(&category)
		if result.Error != nil {
			logger.Error("Failed to seed category", result.Error, map[string]interface{}{
				"category": category.Name,
			})
			return created, result.Error
		}
		if result.RowsAffected > 0 {
			created++
		}
	}

	logger.Info("Categories seeded", map[string]interface{}{
		"created": created,
		"total":   len(DefaultCategories),
	})
	return created, nil
}
