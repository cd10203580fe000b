package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParsePriceCents(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr error
	}{
		{"whole number", "600", 60000, nil},
		{"two decimals", "599.99", 59999, nil},
		{"one decimal", "0.5", 50, nil},
		{"minimum price", "0.01", 1, nil},
		{"trailing zeros allowed", "12.300", 1230, nil},
		{"three decimals rejected", "1.999", 0, e.ErrPricePrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := decimal.NewFromString(tt.in)
			require.NoError(t, err)

			cents, err := parsePriceCents(price)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, cents)
		})
	}
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"bad request", e.ErrStatusBadRequest, http.StatusBadRequest},
		{"validation error", e.ErrNameRequired, http.StatusBadRequest},
		{"price out of range", e.ErrPriceOutOfRange, http.StatusBadRequest},
		{"id mismatch", e.ErrIDMismatch, http.StatusBadRequest},
		{"not found", e.ErrProductNotFound, http.StatusNotFound},
		{"conflict", e.ErrProductConflict, http.StatusConflict},
		{"wrapped sentinel keeps code", e.Wrap("ProductUseCase.UpdateProduct", e.ErrProductConflict), http.StatusConflict},
		{"unknown error hides details", assertedInternalErr, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tt.err)
			require.Equal(t, tt.code, code)

			if tt.code == http.StatusInternalServerError {
				// Текст внутренней ошибки не должен утекать наружу
				require.Equal(t, e.ErrInternalServerError.Error(), msg)
			}
		})
	}
}

var assertedInternalErr = e.Wrap("ProductRepo.List", errConnRefused)

var errConnRefused = &connError{}

type connError struct{}

func (*connError) Error() string { return "connection refused" }

func TestParseListQuery_Defaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)

	req, err := parseListQuery(r)
	require.NoError(t, err)

	require.Equal(t, usecase.DefaultPage, req.Page)
	require.Equal(t, usecase.DefaultPageSize, req.PageSize)
	require.Equal(t, usecase.DefaultSortColumn, req.SortColumn)
	require.False(t, req.IncludeDeleted)
	require.Nil(t, req.MinPriceCents)
	require.Nil(t, req.MaxPriceCents)
	require.Nil(t, req.IsActive)
}

func TestParseListQuery_NegativePageNormalized(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=-3&pageSize=-1", nil)

	req, err := parseListQuery(r)
	require.NoError(t, err)

	require.Equal(t, usecase.DefaultPage, req.Page)
	require.Equal(t, usecase.DefaultPageSize, req.PageSize)
}

func TestParseListQuery_AllParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/products?page=2&pageSize=25&sortColumn=price&sortOrder=desc"+
			"&search=phone&category=electronics&minPrice=9.99&maxPrice=100&isActive=true&includeDeleted=true",
		nil)

	req, err := parseListQuery(r)
	require.NoError(t, err)

	require.Equal(t, 2, req.Page)
	require.Equal(t, 25, req.PageSize)
	require.Equal(t, "price", req.SortColumn)
	require.Equal(t, "desc", req.SortOrder)
	require.Equal(t, "phone", req.Search)
	require.Equal(t, "electronics", req.Category)
	require.NotNil(t, req.MinPriceCents)
	require.Equal(t, int64(999), *req.MinPriceCents)
	require.NotNil(t, req.MaxPriceCents)
	require.Equal(t, int64(10000), *req.MaxPriceCents)
	require.NotNil(t, req.IsActive)
	require.True(t, *req.IsActive)
	require.True(t, req.IncludeDeleted)
}

func TestParseListQuery_MalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad page", "?page=abc"},
		{"bad pageSize", "?pageSize=ten"},
		{"bad minPrice", "?minPrice=cheap"},
		{"minPrice too precise", "?minPrice=1.999"},
		{"bad isActive", "?isActive=maybe"},
		{"bad includeDeleted", "?includeDeleted=da"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil)

			_, err := parseListQuery(r)
			require.Error(t, err)

			code, _ := ToHTTPResponse(err)
			require.Equal(t, http.StatusBadRequest, code)
		})
	}
}
