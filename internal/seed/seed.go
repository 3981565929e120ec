package seed

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/homeheartcreation/shop-backend/internal/app/repository"
	"github.com/homeheartcreation/shop-backend/pkg/logger"
	"github.com/homeheartcreation/shop-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Product sheet columns, in order.
const (
	colName = iota
	colDescription
	colPrice
	colStock
	colCategory
	colImage
	colFeatured
	productColumns
)

// ProductRow is one parsed line of the product import sheet.
type ProductRow struct {
	Line        int
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Images      []string
	Featured    bool
}

// EnsureAdmin creates the admin account unless the email is already taken.
func EnsureAdmin(users repository.UserRepository, name, email, password string) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := users.FindByEmail(email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := util.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

// ReadProductsXLSX parses the first sheet of an XLSX workbook. The first row
// is a header. Rows without a name or with an unparsable price are skipped and
// reported by line number.
func ReadProductsXLSX(r io.Reader) ([]ProductRow, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []ProductRow
	var skipped []int
	for i, row := range rows {
		if i == 0 {
			continue
		}
		line := i + 1

		// GetRows trims trailing empty cells
		cells := make([]string, productColumns)
		for j := 0; j < len(row) && j < productColumns; j++ {
			cells[j] = strings.TrimSpace(row[j])
		}

		if cells[colName] == "" {
			skipped = append(skipped, line)
			continue
		}
		price, err := decimal.NewFromString(cells[colPrice])
		if err != nil || price.IsNegative() {
			skipped = append(skipped, line)
			continue
		}
		stock := 0
		if cells[colStock] != "" {
			stock, err = strconv.Atoi(cells[colStock])
			if err != nil || stock < 0 {
				skipped = append(skipped, line)
				continue
			}
		}

		var images []string
		for _, img := range strings.Split(cells[colImage], ",") {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}
		if len(images) == 0 {
			skipped = append(skipped, line)
			continue
		}

		featured, _ := strconv.ParseBool(cells[colFeatured])

		products = append(products, ProductRow{
			Line:        line,
			Name:        cells[colName],
			Description: cells[colDescription],
			Price:       price,
			Stock:       stock,
			Category:    cells[colCategory],
			Images:      images,
			Featured:    featured,
		})
	}
	return products, skipped, nil
}

// ImportProducts creates the parsed products. Unknown category names leave the
// product uncategorized.
func ImportProducts(products repository.ProductRepository, categories repository.CategoryRepository, rows []ProductRow) (int, error) {
	created := 0
	for _, row := range rows {
		product := &model.Product{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Image:       row.Images[0],
			Images:      row.Images,
			Stock:       row.Stock,
			Featured:    row.Featured,
		}

		if row.Category != "" {
			category, err := categories.FindByName(row.Category)
			switch {
			case err == nil:
				product.CategoryID = &category.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				logger.Warn("Unknown category in import, product left uncategorized", map[string]interface{}{
					"line":     row.Line,
					"category": row.Category,
				})
			default:
				return created, err
			}
		}

		if err := products.Create(product); err != nil {
			return created, fmt.Errorf("line %d: %w", row.Line, err)
		}
		created++
	}
	return created, nil
}
