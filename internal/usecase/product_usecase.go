package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Границы цены в копейках: 0.01–1 000 000.00
const (
	minPriceCents = 1
	maxPriceCents = 100_000_000
)

const (
	maxNameLen         = 100
	maxDescriptionLen  = 500
	maxCategoryLen     = 50
	maxManufacturerLen = 100
)

// ProductUseCase реализует бизнес-логику управления каталогом товаров.
type ProductUseCase struct {
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// ListProducts возвращает страницу товаров по фильтрам запроса.
// TotalCount считается по отфильтрованному набору независимо от сортировки и пагинации.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error) {
	const op = "ProductUseCase.ListProducts"

	req.Normalize()

	products, totalCount, err := p.productRepo.List(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewListProductsRes(products, totalCount, req.Page, req.PageSize), nil
}

// GetProduct возвращает товар по идентификатору, сначала заглядывая в кэш.
// Удалённые товары видны только при includeDeleted=true.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64, includeDeleted bool) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	if cached, err := p.cacheRepo.GetProduct(ctx, id); err == nil && cached != nil {
		return p.applyVisibility(cached, includeDeleted, op)
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return p.applyVisibility(product, includeDeleted, op)
}

// CreateProduct проверяет поля запроса и создаёт товар.
// Флаги is_active/is_deleted выставляются принудительно вне зависимости от запроса.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := validateProductFields(req.Name, req.Description, req.PriceCents, req.StockQuantity, req.Category, req.Manufacturer); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.Name, req.Description, req.PriceCents, req.StockQuantity, req.Category, req.Manufacturer)

	var created *domain.Product
	err := p.inTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.productRepo.Create(ctx, product)
		if err != nil {
			return err
		}

		return p.enqueueChangeEvent(ctx, ProductCreated, created.ID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return created, nil
}

// UpdateProduct выполняет полную замену полей товара. Флаги is_active/is_deleted из
// запроса игнорируются: перед записью они копируются из существующей записи. Конкурентное
// изменение обнаруживается по updated_at; после него выполняется повторная проверка
// существования записи.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) error {
	const op = "ProductUseCase.UpdateProduct"

	if err := validateProductFields(req.Name, req.Description, req.PriceCents, req.StockQuantity, req.Category, req.Manufacturer); err != nil {
		return e.Wrap(op, err)
	}

	existing, err := p.productRepo.GetByID(ctx, req.ID)
	if err != nil {
		return e.Wrap(op, err)
	}

	product := &domain.Product{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		PriceCents:    req.PriceCents,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Manufacturer:  req.Manufacturer,
		// Флаги видимости меняются только выделенными операциями
		IsActive:  existing.IsActive,
		IsDeleted: existing.IsDeleted,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: existing.UpdatedAt,
	}

	err = p.inTransaction(ctx, func(ctx context.Context) error {
		if _, err := p.productRepo.Update(ctx, product); err != nil {
			return err
		}

		return p.enqueueChangeEvent(ctx, ProductUpdated, req.ID)
	})
	if err != nil {
		if errors.Is(err, e.ErrNoRowsUpdated) {
			// Повторная проверка существования: запись могла исчезнуть между чтением и записью
			if _, getErr := p.productRepo.GetByID(ctx, req.ID); getErr != nil {
				return e.Wrap(op, getErr)
			}

			return e.Wrap(op, e.ErrProductConflict)
		}

		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, op, req.ID)
	return nil
}

// DeleteProduct мягко удаляет товар: is_deleted=true, is_active=false.
// Запись физически не удаляется.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	err := p.inTransaction(ctx, func(ctx context.Context) error {
		if err := p.productRepo.SoftDelete(ctx, id); err != nil {
			return err
		}

		return p.enqueueChangeEvent(ctx, ProductDeleted, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, op, id)
	return nil
}

// RestoreProduct восстанавливает мягко удалённый товар: is_deleted=false, is_active=true.
func (p *ProductUseCase) RestoreProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.RestoreProduct"

	err := p.inTransaction(ctx, func(ctx context.Context) error {
		if err := p.productRepo.Restore(ctx, id); err != nil {
			return err
		}

		return p.enqueueChangeEvent(ctx, ProductRestored, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, op, id)
	return nil
}

// SetProductActive переключает флаг активности, не трогая is_deleted.
func (p *ProductUseCase) SetProductActive(ctx context.Context, id int64, isActive bool) error {
	const op = "ProductUseCase.SetProductActive"

	eventType := ProductDeactivated
	if isActive {
		eventType = ProductActivated
	}

	err := p.inTransaction(ctx, func(ctx context.Context) error {
		if err := p.productRepo.SetActive(ctx, id, isActive); err != nil {
			return err
		}

		return p.enqueueChangeEvent(ctx, eventType, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateCache(ctx, op, id)
	return nil
}

// Categories возвращает список различных категорий с учётом фильтра видимости.
func (p *ProductUseCase) Categories(ctx context.Context, includeDeleted bool) ([]string, error) {
	const op = "ProductUseCase.Categories"

	categories, err := p.productRepo.Categories(ctx, includeDeleted)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// Summary возвращает сводную статистику каталога.
// Для пустого набора возвращаются нулевые значения, а не ошибка.
func (p *ProductUseCase) Summary(ctx context.Context, includeDeleted bool) (*Summary, error) {
	const op = "ProductUseCase.Summary"

	summary, err := p.productRepo.Summary(ctx, includeDeleted)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return summary, nil
}

// StatsByCategory возвращает статистику по категориям, отсортированную по убыванию
// стоимости запасов.
func (p *ProductUseCase) StatsByCategory(ctx context.Context, includeDeleted bool) ([]CategoryStats, error) {
	const op = "ProductUseCase.StatsByCategory"

	stats, err := p.productRepo.StatsByCategory(ctx, includeDeleted)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return stats, nil
}

// inTransaction выполняет fn в транзакции PostgreSQL, прокидывая pgx.Tx через контекст.
func (p *ProductUseCase) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return err
	}
	defer func() {
		if tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err := fn(ctx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// enqueueChangeEvent кладёт событие изменения товара в outbox в рамках текущей транзакции.
func (p *ProductUseCase) enqueueChangeEvent(ctx context.Context, eventType OutboxEventType, productID int64) error {
	eventID := uuid.NewString()

	payload, err := json.Marshal(ProductChangePayload{
		EventID:    eventID,
		EventType:  eventType,
		ProductID:  productID,
		OccurredAt: time.Now().UnixNano(),
	})
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, NewOutboxEvent(eventID, eventType, productID, payload))
	return err
}

// invalidateCache удаляет товар из кэша после успешной мутации.
func (p *ProductUseCase) invalidateCache(ctx context.Context, op string, id int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to delete product from cache: %v", e.Wrap(op, err))
	}
}

// applyVisibility скрывает мягко удалённые товары от вызовов без includeDeleted.
func (p *ProductUseCase) applyVisibility(product *domain.Product, includeDeleted bool, op string) (*domain.Product, error) {
	if product.IsDeleted && !includeDeleted {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	return product, nil
}

// validateProductFields проверяет обязательные поля и диапазоны значений товара.
func validateProductFields(name, description string, priceCents, stockQuantity int64, category string, manufacturer *string) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return e.ErrNameTooLong
	}

	if strings.TrimSpace(description) == "" {
		return e.ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return e.ErrDescriptionTooLong
	}

	if priceCents < minPriceCents || priceCents > maxPriceCents {
		return e.ErrPriceOutOfRange
	}

	if stockQuantity < 0 {
		return e.ErrNegativeStock
	}

	if strings.TrimSpace(category) == "" {
		return e.ErrCategoryRequired
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return e.ErrCategoryTooLong
	}

	if manufacturer != nil && utf8.RuneCountInString(*manufacturer) > maxManufacturerLen {
		return e.ErrManufacturerTooLong
	}

	return nil
}
