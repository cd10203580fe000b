package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type ProductRepository interface {
	// List возвращает страницу товаров и общее число записей,
	// удовлетворяющих фильтру (до пагинации).
	List(ctx context.Context, req *ListProductsReq) ([]domain.Product, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// Update выполняет полную замену полей с оптимистичной проверкой updated_at.
	// Возвращает e.ErrNoRowsUpdated, если запись изменена конкурентно или отсутствует.
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, isActive bool) error
	Categories(ctx context.Context, includeDeleted bool) ([]string, error)
	Summary(ctx context.Context, includeDeleted bool) (*Summary, error)
	StatsByCategory(ctx context.Context, includeDeleted bool) ([]CategoryStats, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}
