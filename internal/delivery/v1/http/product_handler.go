package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// ProductRequest — тело запроса на создание/обновление товара.
// Флаги is_active/is_deleted в теле не принимаются.
type ProductRequest struct {
	ID            int64           `json:"id,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity"`
	Category      string          `json:"category"`
	Manufacturer  *string         `json:"manufacturer,omitempty"`
}

type ProductResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity"`
	Category      string          `json:"category"`
	Manufacturer  *string         `json:"manufacturer,omitempty"`
	IsActive      bool            `json:"isActive"`
	IsDeleted     bool            `json:"isDeleted"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

type ProductListResponse struct {
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int64             `json:"totalPages"`
	Products   []ProductResponse `json:"data"`
}

type SummaryResponse struct {
	TotalProducts    int64           `json:"totalProducts"`
	ActiveProducts   int64           `json:"activeProducts"`
	InactiveProducts int64           `json:"inactiveProducts"`
	DeletedProducts  int64           `json:"deletedProducts"`
	InventoryValue   decimal.Decimal `json:"inventoryValue"`
	TotalStock       int64           `json:"totalStock"`
	CategoryCount    int64           `json:"categoryCount"`
}

type CategoryStatsResponse struct {
	Category         string          `json:"category"`
	ProductCount     int64           `json:"productCount"`
	ActiveProducts   int64           `json:"activeProducts"`
	InactiveProducts int64           `json:"inactiveProducts"`
	InventoryValue   decimal.Decimal `json:"inventoryValue"`
	TotalStock       int64           `json:"totalStock"`
	AvgPrice         decimal.Decimal `json:"avgPrice"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         decimal.New(p.PriceCents, -2),
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		Manufacturer:  p.Manufacturer,
		IsActive:      p.IsActive,
		IsDeleted:     p.IsDeleted,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// listProducts
//
//	@Summary		Листинг товаров
//	@Description	Возвращает страницу товаров с фильтрацией, поиском и сортировкой
//	@Tags			products
//	@Produce		json
//	@Param			page			query		int		false	"Номер страницы"
//	@Param			pageSize		query		int		false	"Размер страницы"
//	@Param			sortColumn		query		string	false	"Колонка сортировки"
//	@Param			sortOrder		query		string	false	"asc или desc"
//	@Param			search			query		string	false	"Поиск по тексту"
//	@Param			category		query		string	false	"Фильтр по категории"
//	@Param			minPrice		query		number	false	"Минимальная цена"
//	@Param			maxPrice		query		number	false	"Максимальная цена"
//	@Param			isActive		query		bool	false	"Фильтр по активности"
//	@Param			includeDeleted	query		bool	false	"Показывать удалённые"
//	@Success		200				{object}	ProductListResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parseListQuery(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	products := make([]ProductResponse, 0, len(res.Products))
	for i := range res.Products {
		products = append(products, newProductResponse(&res.Products[i]))
	}

	WriteSuccess(w, http.StatusOK, &ProductListResponse{
		TotalCount: res.TotalCount,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
		Products:   products,
	})
}

// getProduct
//
//	@Summary	Получение товара по ID
//	@Tags		products
//	@Produce	json
//	@Param		id				path		int		true	"ID товара"
//	@Param		includeDeleted	query		bool	false	"Показывать удалённые"
//	@Success	200				{object}	ProductResponse
//	@Failure	404				{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	includeDeleted, err := parseBoolQuery(r, "includeDeleted")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id, includeDeleted)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(product))
}

// createProduct
//
//	@Summary		Создание нового товара
//	@Description	Новый товар всегда создаётся активным и не удалённым
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	priceCents, err := parsePriceCents(body.Price)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		Name:          body.Name,
		Description:   body.Description,
		PriceCents:    priceCents,
		StockQuantity: body.StockQuantity,
		Category:      body.Category,
		Manufacturer:  body.Manufacturer,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newProductResponse(product))
}

// updateProduct
//
//	@Summary		Полное обновление товара
//	@Description	Флаги видимости из тела игнорируются, сохраняются текущие
//	@Tags			products
//	@Accept			json
//	@Param			id		path	int				true	"ID товара"
//	@Param			product	body	ProductRequest	true	"Товар"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var body ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if body.ID != 0 && body.ID != id {
		p.logger.Warnf("%d %s: path id %d, body id %d", http.StatusBadRequest, e.ErrIDMismatch.Error(), id, body.ID)
		WriteError(w, e.ErrIDMismatch)
		return
	}

	priceCents, err := parsePriceCents(body.Price)
	if err != nil {
		WriteError(w, err)
		return
	}

	err = p.productUsecase.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		ID:            id,
		Name:          body.Name,
		Description:   body.Description,
		PriceCents:    priceCents,
		StockQuantity: body.StockQuantity,
		Category:      body.Category,
		Manufacturer:  body.Manufacturer,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// deleteProduct помечает товар удалённым, запись остаётся в базе.
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// restoreProduct возвращает удалённый товар в каталог.
func (p *ProductHandler) restoreProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.RestoreProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// setProductActive включает или выключает товар, не затрагивая прочие поля.
// Тело запроса — голый JSON-boolean.
func (p *ProductHandler) setProductActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var isActive *bool
	if err := json.NewDecoder(r.Body).Decode(&isActive); err != nil || isActive == nil {
		p.logger.Warnf("%d %s: body must be a boolean", http.StatusBadRequest, e.ErrStatusBadRequest.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if err := p.productUsecase.SetProductActive(r.Context(), id, *isActive); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusNoContent, nil)
}

// listCategories возвращает отсортированный список уникальных категорий.
func (p *ProductHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := parseBoolQuery(r, "includeDeleted")
	if err != nil {
		WriteError(w, err)
		return
	}

	categories, err := p.productUsecase.Categories(r.Context(), includeDeleted)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	if categories == nil {
		categories = []string{}
	}

	WriteSuccess(w, http.StatusOK, categories)
}

// statsSummary
//
//	@Summary	Сводная статистика каталога
//	@Tags		stats
//	@Produce	json
//	@Param		includeDeleted	query		bool	false	"Учитывать удалённые"
//	@Success	200				{object}	SummaryResponse
//	@Router		/products/stats/summary [get]
func (p *ProductHandler) statsSummary(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := parseBoolQuery(r, "includeDeleted")
	if err != nil {
		WriteError(w, err)
		return
	}

	summary, err := p.productUsecase.Summary(r.Context(), includeDeleted)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &SummaryResponse{
		TotalProducts:    summary.TotalProducts,
		ActiveProducts:   summary.ActiveProducts,
		InactiveProducts: summary.InactiveProducts,
		DeletedProducts:  summary.DeletedProducts,
		InventoryValue:   decimal.New(summary.InventoryValueCents, -2),
		TotalStock:       summary.TotalStock,
		CategoryCount:    summary.CategoryCount,
	})
}

// statsByCategory возвращает статистику по категориям,
// отсортированную по стоимости запасов по убыванию.
func (p *ProductHandler) statsByCategory(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := parseBoolQuery(r, "includeDeleted")
	if err != nil {
		WriteError(w, err)
		return
	}

	stats, err := p.productUsecase.StatsByCategory(r.Context(), includeDeleted)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	res := make([]CategoryStatsResponse, 0, len(stats))
	for _, s := range stats {
		res = append(res, CategoryStatsResponse{
			Category:         s.Category,
			ProductCount:     s.ProductCount,
			ActiveProducts:   s.ActiveProducts,
			InactiveProducts: s.InactiveProducts,
			InventoryValue:   decimal.New(s.InventoryValueCents, -2),
			TotalStock:       s.TotalStock,
			AvgPrice:         decimal.New(s.AvgPriceCents, -2),
		})
	}

	WriteSuccess(w, http.StatusOK, res)
}
