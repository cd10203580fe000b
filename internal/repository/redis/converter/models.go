package converter

import "time"

// ProductRedisModel — JSON-представление товара в кэше.
type ProductRedisModel struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	PriceCents    int64      `json:"price_cents"`
	StockQuantity int64      `json:"stock_quantity"`
	Category      string     `json:"category"`
	Manufacturer  *string    `json:"manufacturer,omitempty"`
	IsActive      bool       `json:"is_active"`
	IsDeleted     bool       `json:"is_deleted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}
