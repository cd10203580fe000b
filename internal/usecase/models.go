package usecase

import (
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// PRODUCT USECASE

const (
	DefaultPage       = 1
	DefaultPageSize   = 100
	DefaultSortColumn = "name"
	DefaultSortOrder  = "asc"
)

// ListProductsReq — параметры листинга товаров: фильтры, сортировка, пагинация, видимость.
type ListProductsReq struct {
	Page           int
	PageSize       int
	SortColumn     string
	SortOrder      string
	Search         string
	Category       string
	MinPriceCents  *int64
	MaxPriceCents  *int64
	IsActive       *bool
	IncludeDeleted bool
}

// Normalize приводит параметры пагинации к допустимым значениям:
// page < 1 трактуется как 1, pageSize < 1 — как значение по умолчанию.
// Верхняя граница pageSize намеренно не ограничивается.
func (r *ListProductsReq) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}

	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}

	if r.SortColumn == "" {
		r.SortColumn = DefaultSortColumn
	}
}

// ListProductsRes — страница товаров с метаданными пагинации.
// TotalCount считается по отфильтрованному набору до сортировки и пагинации.
type ListProductsRes struct {
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int64
	Products   []domain.Product
}

// CreateProductReq — запрос на создание товара. Флаги видимости не принимаются:
// новый товар всегда активен и не удалён.
type CreateProductReq struct {
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int64
	Category      string
	Manufacturer  *string
}

// UpdateProductReq — полная замена полей товара. Флаги is_active/is_deleted
// из запроса игнорируются и сохраняются из существующей записи.
type UpdateProductReq struct {
	ID            int64
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int64
	Category      string
	Manufacturer  *string
}

// Summary — сводная статистика каталога.
type Summary struct {
	TotalProducts       int64
	ActiveProducts      int64
	InactiveProducts    int64
	DeletedProducts     int64
	InventoryValueCents int64
	TotalStock          int64
	CategoryCount       int64
}

// CategoryStats — статистика по одной категории.
type CategoryStats struct {
	Category            string
	ProductCount        int64
	ActiveProducts      int64
	InactiveProducts    int64
	InventoryValueCents int64
	TotalStock          int64
	AvgPriceCents       int64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductCreated     OutboxEventType = "product.created"
	ProductUpdated     OutboxEventType = "product.updated"
	ProductDeleted     OutboxEventType = "product.deleted"
	ProductRestored    OutboxEventType = "product.restored"
	ProductActivated   OutboxEventType = "product.activated"
	ProductDeactivated OutboxEventType = "product.deactivated"
)

// OutboxEvent — событие изменения товара, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ProductChangePayload — JSON-тело события изменения товара.
type ProductChangePayload struct {
	EventID    string          `json:"event_id"`
	EventType  OutboxEventType `json:"event_type"`
	ProductID  int64           `json:"product_id"`
	OccurredAt int64           `json:"occurred_at"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

// MAPPERS

func NewListProductsRes(products []domain.Product, totalCount int64, page, pageSize int) *ListProductsRes {
	var totalPages int64
	if totalCount > 0 {
		totalPages = (totalCount + int64(pageSize) - 1) / int64(pageSize)
	}

	return &ListProductsRes{
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Products:   products,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now(),
	}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}
