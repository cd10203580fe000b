package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = "id, name, description, price_cents, stock_quantity, category, manufacturer, is_active, is_deleted, created_at, updated_at"

// sortColumns — таблица соответствия внешних имён колонок сортировки столбцам БД.
// Ключи сравниваются без учёта регистра; нераспознанное имя откатывается к name.
var sortColumns = map[string]string{
	"name":          "name",
	"description":   "description",
	"price":         "price_cents",
	"stockquantity": "stock_quantity",
	"category":      "category",
	"manufacturer":  "manufacturer",
	"isactive":      "is_active",
}

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
// Чтения идут через пул, мутации — через транзакцию из контекста.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает страницу товаров и общее число записей, удовлетворяющих фильтру.
// Порядок строго фиксирован: фильтрация -> подсчёт -> сортировка -> пагинация.
func (p *ProductRepo) List(ctx context.Context, req *usecase.ListProductsReq) ([]domain.Product, int64, error) {
	where, args := buildListFilter(req)

	countQuery := "SELECT COUNT(*) FROM products" + where

	var totalCount int64
	if err := p.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	orderBy := fmt.Sprintf(" ORDER BY %s %s, id ASC", resolveSortColumn(req.SortColumn), resolveSortOrder(req.SortOrder))

	args = append(args, req.PageSize, (req.Page-1)*req.PageSize)
	pageQuery := fmt.Sprintf(
		"SELECT %s FROM products%s%s LIMIT $%d OFFSET $%d",
		productColumns, where, orderBy, len(args)-1, len(args),
	)

	rows, err := p.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.ProductModel
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), totalCount, nil
}

// GetByID возвращает товар по идентификатору, включая мягко удалённые.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)

	model, err := scanProduct(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Create вставляет товар. Флаги видимости задаются базой: is_active=TRUE, is_deleted=FALSE.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := fmt.Sprintf(`
		INSERT INTO products (name, description, price_cents, stock_quantity, category, manufacturer, is_active, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE)
		RETURNING %s
	`, productColumns)

	model, err := scanProduct(tx.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.PriceCents,
		product.StockQuantity,
		product.Category,
		product.Manufacturer,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// Update выполняет полную замену полей с оптимистичной проверкой updated_at.
// Флаги is_active/is_deleted не затрагиваются. При конкурентном изменении или
// отсутствии записи возвращает e.ErrNoRowsUpdated.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := fmt.Sprintf(`
		UPDATE products
		SET name = $2,
			description = $3,
			price_cents = $4,
			stock_quantity = $5,
			category = $6,
			manufacturer = $7,
			updated_at = NOW()
		WHERE id = $1 AND updated_at IS NOT DISTINCT FROM $8
		RETURNING %s
	`, productColumns)

	model, err := scanProduct(tx.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.PriceCents,
		product.StockQuantity,
		product.Category,
		product.Manufacturer,
		product.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrNoRowsUpdated
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// SoftDelete помечает товар удалённым: is_deleted=TRUE, is_active=FALSE.
func (p *ProductRepo) SoftDelete(ctx context.Context, id int64) error {
	return p.setFlags(ctx, id, "is_deleted = TRUE, is_active = FALSE")
}

// Restore снимает пометку удаления: is_deleted=FALSE, is_active=TRUE.
func (p *ProductRepo) Restore(ctx context.Context, id int64) error {
	return p.setFlags(ctx, id, "is_deleted = FALSE, is_active = TRUE")
}

// SetActive переключает флаг активности, не затрагивая is_deleted.
func (p *ProductRepo) SetActive(ctx context.Context, id int64, isActive bool) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, "UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1", id, isActive)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// Categories возвращает отсортированный список различных категорий.
func (p *ProductRepo) Categories(ctx context.Context, includeDeleted bool) ([]string, error) {
	query := "SELECT DISTINCT category FROM products"
	if !includeDeleted {
		query += " WHERE is_deleted = FALSE"
	}
	query += " ORDER BY category"

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, category)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// Summary возвращает сводную статистику по видимому набору товаров.
// Для пустого набора все значения нулевые.
func (p *ProductRepo) Summary(ctx context.Context, includeDeleted bool) (*usecase.Summary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active),
			COUNT(*) FILTER (WHERE is_deleted),
			COALESCE(SUM(price_cents * stock_quantity), 0),
			COALESCE(SUM(stock_quantity), 0),
			COUNT(DISTINCT category)
		FROM products
	`
	if !includeDeleted {
		query += " WHERE is_deleted = FALSE"
	}

	var summary usecase.Summary
	err := p.pool.QueryRow(ctx, query).Scan(
		&summary.TotalProducts,
		&summary.ActiveProducts,
		&summary.InactiveProducts,
		&summary.DeletedProducts,
		&summary.InventoryValueCents,
		&summary.TotalStock,
		&summary.CategoryCount,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &summary, nil
}

// StatsByCategory группирует видимый набор по категориям.
// Группы упорядочены по убыванию стоимости запасов.
func (p *ProductRepo) StatsByCategory(ctx context.Context, includeDeleted bool) ([]usecase.CategoryStats, error) {
	query := `
		SELECT
			category,
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE NOT is_active),
			COALESCE(SUM(price_cents * stock_quantity), 0),
			COALESCE(SUM(stock_quantity), 0),
			COALESCE(ROUND(AVG(price_cents)), 0)::BIGINT
		FROM products
	`
	if !includeDeleted {
		query += " WHERE is_deleted = FALSE"
	}
	query += `
		GROUP BY category
		ORDER BY COALESCE(SUM(price_cents * stock_quantity), 0) DESC, category
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.CategoryStats, 0)
	for rows.Next() {
		var stats usecase.CategoryStats
		err := rows.Scan(
			&stats.Category,
			&stats.ProductCount,
			&stats.ActiveProducts,
			&stats.InactiveProducts,
			&stats.InventoryValueCents,
			&stats.TotalStock,
			&stats.AvgPriceCents,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) setFlags(ctx context.Context, id int64, set string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, fmt.Sprintf("UPDATE products SET %s, updated_at = NOW() WHERE id = $1", set), id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// buildListFilter собирает WHERE-часть запроса листинга и аргументы к ней.
// Поиск выполняется без учёта регистра (ILIKE) по name, description, category и manufacturer.
func buildListFilter(req *usecase.ListProductsReq) (string, []any) {
	var clauses []string
	var args []any

	if !req.IncludeDeleted {
		clauses = append(clauses, "is_deleted = FALSE")
	}

	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d OR manufacturer ILIKE $%d)",
			n, n, n, n,
		))
	}

	if req.Category != "" {
		args = append(args, req.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}

	if req.MinPriceCents != nil {
		args = append(args, *req.MinPriceCents)
		clauses = append(clauses, fmt.Sprintf("price_cents >= $%d", len(args)))
	}

	if req.MaxPriceCents != nil {
		args = append(args, *req.MaxPriceCents)
		clauses = append(clauses, fmt.Sprintf("price_cents <= $%d", len(args)))
	}

	if req.IsActive != nil {
		args = append(args, *req.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// resolveSortColumn сопоставляет внешнее имя колонки столбцу БД.
// Нераспознанные имена откатываются к сортировке по name.
func resolveSortColumn(name string) string {
	if column, ok := sortColumns[strings.ToLower(name)]; ok {
		return column
	}

	return "name"
}

// resolveSortOrder трактует любое значение, кроме "desc" (без учёта регистра), как ASC.
func resolveSortOrder(order string) string {
	if strings.EqualFold(order, "desc") {
		return "DESC"
	}

	return "ASC"
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID,
		&model.Name,
		&model.Description,
		&model.PriceCents,
		&model.StockQuantity,
		&model.Category,
		&model.Manufacturer,
		&model.IsActive,
		&model.IsDeleted,
		&model.CreatedAt,
		&model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
