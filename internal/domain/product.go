package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID            int64
	Name          string
	Description   string
	PriceCents    int64 // Цена хранится в копейках
	StockQuantity int64
	Category      string
	Manufacturer  *string
	IsActive      bool
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// NewProduct создаёт товар с принудительными флагами is_active=true, is_deleted=false.
// Значения флагов из входного запроса игнорируются.
func NewProduct(name, description string, priceCents, stockQuantity int64, category string, manufacturer *string) *Product {
	return &Product{
		Name:          name,
		Description:   description,
		PriceCents:    priceCents,
		StockQuantity: stockQuantity,
		Category:      category,
		Manufacturer:  manufacturer,
		IsActive:      true,
		IsDeleted:     false,
	}
}
