package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Debugf(format string, args ...any)            {}
func (testLogger) Infof(format string, args ...any)             {}
func (testLogger) Warnf(format string, args ...any)             {}
func (testLogger) Errorf(err error, format string, args ...any) {}

// productUCMock — заглушка usecase с записью последнего запроса.
type productUCMock struct {
	listRes    *usecase.ListProductsRes
	product    *domain.Product
	categories []string
	summary    *usecase.Summary
	stats      []usecase.CategoryStats
	err        error

	lastCreate    *usecase.CreateProductReq
	lastUpdate    *usecase.UpdateProductReq
	lastID        int64
	lastSetActive *bool
}

func (m *productUCMock) ListProducts(ctx context.Context, req *usecase.ListProductsReq) (*usecase.ListProductsRes, error) {
	return m.listRes, m.err
}

func (m *productUCMock) GetProduct(ctx context.Context, id int64, includeDeleted bool) (*domain.Product, error) {
	m.lastID = id
	return m.product, m.err
}

func (m *productUCMock) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	m.lastCreate = req
	return m.product, m.err
}

func (m *productUCMock) UpdateProduct(ctx context.Context, req *usecase.UpdateProductReq) error {
	m.lastUpdate = req
	return m.err
}

func (m *productUCMock) DeleteProduct(ctx context.Context, id int64) error {
	m.lastID = id
	return m.err
}

func (m *productUCMock) RestoreProduct(ctx context.Context, id int64) error {
	m.lastID = id
	return m.err
}

func (m *productUCMock) SetProductActive(ctx context.Context, id int64, isActive bool) error {
	m.lastID = id
	m.lastSetActive = &isActive
	return m.err
}

func (m *productUCMock) Categories(ctx context.Context, includeDeleted bool) ([]string, error) {
	return m.categories, m.err
}

func (m *productUCMock) Summary(ctx context.Context, includeDeleted bool) (*usecase.Summary, error) {
	return m.summary, m.err
}

func (m *productUCMock) StatsByCategory(ctx context.Context, includeDeleted bool) ([]usecase.CategoryStats, error) {
	return m.stats, m.err
}

func newTestMux(uc usecase.ProductUC) *chi.Mux {
	r := chi.NewRouter()
	NewRouter(r, testLogger{}).Init(uc)
	return r
}

func sampleProduct() *domain.Product {
	manufacturer := "Acme"
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Product{
		ID:            1,
		Name:          "Monitor",
		Description:   "27 inch IPS",
		PriceCents:    59999,
		StockQuantity: 5,
		Category:      "electronics",
		Manufacturer:  &manufacturer,
		IsActive:      true,
		CreatedAt:     now,
	}
}

func TestCreateProduct_Returns201(t *testing.T) {
	uc := &productUCMock{product: sampleProduct()}
	mux := newTestMux(uc)

	body := `{"name":"Monitor","description":"27 inch IPS","price":"599.99","stockQuantity":5,"category":"electronics","manufacturer":"Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.NotNil(t, uc.lastCreate)
	require.Equal(t, int64(59999), uc.lastCreate.PriceCents)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "599.99", got["price"])
	require.Equal(t, true, got["isActive"])
	require.Equal(t, false, got["isDeleted"])
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	mux := newTestMux(&productUCMock{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_TooPrecisePrice(t *testing.T) {
	mux := newTestMux(&productUCMock{})

	body := `{"name":"Monitor","description":"27 inch IPS","price":"599.999","stockQuantity":5,"category":"electronics"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, e.ErrPricePrecision.Error(), res.Message)
}

func TestUpdateProduct_NoContent(t *testing.T) {
	uc := &productUCMock{}
	mux := newTestMux(uc)

	body := `{"id":7,"name":"Monitor v2","description":"28 inch IPS","price":"649.99","stockQuantity":3,"category":"electronics"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/7", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.Bytes())

	require.NotNil(t, uc.lastUpdate)
	require.Equal(t, int64(7), uc.lastUpdate.ID)
	require.Equal(t, int64(64999), uc.lastUpdate.PriceCents)
}

func TestUpdateProduct_IDMismatch(t *testing.T) {
	uc := &productUCMock{}
	mux := newTestMux(uc)

	body := `{"id":8,"name":"Monitor","description":"27 inch IPS","price":"599.99","stockQuantity":5,"category":"electronics"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/7", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Nil(t, uc.lastUpdate, "usecase must not be called on id mismatch")

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, e.ErrIDMismatch.Error(), res.Message)
}

func TestUpdateProduct_Conflict(t *testing.T) {
	uc := &productUCMock{err: e.Wrap("ProductUseCase.UpdateProduct", e.ErrProductConflict)}
	mux := newTestMux(uc)

	body := `{"name":"Monitor","description":"27 inch IPS","price":"599.99","stockQuantity":5,"category":"electronics"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/7", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := &productUCMock{err: e.ErrProductNotFound}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, int64(42), uc.lastID)
}

func TestGetProduct_BadID(t *testing.T) {
	mux := newTestMux(&productUCMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProduct_NoContent(t *testing.T) {
	uc := &productUCMock{}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/7", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, int64(7), uc.lastID)
}

func TestRestoreProduct_NoContent(t *testing.T) {
	uc := &productUCMock{}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/7/restore", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, int64(7), uc.lastID)
}

func TestSetProductActive(t *testing.T) {
	uc := &productUCMock{}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/7/set-active", strings.NewReader(`false`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, uc.lastSetActive)
	require.False(t, *uc.lastSetActive)
}

func TestSetProductActive_RequiresBooleanBody(t *testing.T) {
	uc := &productUCMock{}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/7/set-active", strings.NewReader(`null`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Nil(t, uc.lastSetActive)
}

func TestListProducts_Envelope(t *testing.T) {
	uc := &productUCMock{
		listRes: &usecase.ListProductsRes{
			TotalCount: 101,
			Page:       2,
			PageSize:   50,
			TotalPages: 3,
			Products:   []domain.Product{*sampleProduct()},
		},
	}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&pageSize=50", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, int64(101), res.TotalCount)
	require.Equal(t, 2, res.Page)
	require.Equal(t, 50, res.PageSize)
	require.Equal(t, int64(3), res.TotalPages)
	require.Len(t, res.Products, 1)
	require.Equal(t, "Monitor", res.Products[0].Name)
}

func TestListCategories_EmptyIsArray(t *testing.T) {
	mux := newTestMux(&productUCMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/categories", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestStatsSummary(t *testing.T) {
	uc := &productUCMock{
		summary: &usecase.Summary{
			TotalProducts:       10,
			ActiveProducts:      7,
			InactiveProducts:    3,
			InventoryValueCents: 1234500,
			TotalStock:          42,
			CategoryCount:       4,
		},
	}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/stats/summary", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "12345.00", got["inventoryValue"])
	require.Equal(t, float64(10), got["totalProducts"])
}

func TestStatsByCategory(t *testing.T) {
	uc := &productUCMock{
		stats: []usecase.CategoryStats{
			{Category: "electronics", ProductCount: 5, InventoryValueCents: 100000, AvgPriceCents: 25050},
			{Category: "books", ProductCount: 2, InventoryValueCents: 5000, AvgPriceCents: 1250},
		},
	}
	mux := newTestMux(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/stats/by-category", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res []CategoryStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 2)
	require.Equal(t, "electronics", res[0].Category)
	require.True(t, decimal.New(25050, -2).Equal(res[0].AvgPrice))
}
