package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/homeheartcreation/shop-backend/config"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/internal/db"
	"github.com/homeheartcreation/shop-backend/internal/seed"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
)

func main() {
	adminName := flag.String("admin-name", "Admin", "name of the admin account")
	adminEmail := flag.String("admin-email", "admin@homeheartcreation.com", "email of the admin account")
	adminPassword := flag.String("admin-password", os.Getenv("SEED_ADMIN_PASSWORD"), "password of the admin account (or SEED_ADMIN_PASSWORD)")
	productsFile := flag.String("products", "", "optional XLSX file of products to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	gdb := db.GetDB()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx, gdb); err != nil {
		logger.Fatal("Database unreachable", err)
	}
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if *adminPassword == "" {
		logger.Fatal("Admin password is required (-admin-password or SEED_ADMIN_PASSWORD)", nil)
	}
	admin, created, err := seed.EnsureAdmin(repository.NewUserRepository(gdb), *adminName, *adminEmail, *adminPassword)
	if err != nil {
		logger.Fatal("Failed to create admin user", err)
	}
	logger.Info("Admin user ready", map[string]interface{}{
		"email":   admin.Email,
		"created": created,
	})

	count, err := db.SeedCategories(gdb)
	if err != nil {
		logger.Fatal("Failed to seed categories", err)
	}
	logger.Info("Categories seeded", map[string]interface{}{
		"created": count,
	})

	if *productsFile == "" {
		return
	}

	f, err := os.Open(*productsFile)
	if err != nil {
		logger.Fatal("Failed to open products file", err)
	}
	defer f.Close()

	rows, skipped, err := seed.ReadProductsXLSX(f)
	if err != nil {
		logger.Fatal("Failed to read products file", err)
	}
	if len(skipped) > 0 {
		logger.Warn("Skipped invalid product rows", map[string]interface{}{
			"lines": skipped,
		})
	}

	imported, err := seed.ImportProducts(
		repository.NewProductRepository(gdb),
		repository.NewCategoryRepository(gdb),
		rows,
	)
	if err != nil {
		logger.Fatal("Product import failed", err, map[string]interface{}{
			"imported": imported,
		})
	}
	logger.Info("Products imported", map[string]interface{}{
		"imported": imported,
		"skipped":  len(skipped),
	})
}
