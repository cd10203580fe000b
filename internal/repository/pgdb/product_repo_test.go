package pgdb

import (
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/stretchr/testify/require"
)

func TestResolveSortColumn(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"known column", "name", "name"},
		{"price maps to cents column", "price", "price_cents"},
		{"camelCase stock", "stockQuantity", "stock_quantity"},
		{"case insensitive", "CATEGORY", "category"},
		{"isActive maps to flag", "isActive", "is_active"},
		{"unknown falls back to name", "priceDESC; DROP TABLE products", "name"},
		{"empty falls back to name", "", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, resolveSortColumn(tt.in))
		})
	}
}

func TestResolveSortOrder(t *testing.T) {
	require.Equal(t, "DESC", resolveSortOrder("desc"))
	require.Equal(t, "DESC", resolveSortOrder("DESC"))
	require.Equal(t, "DESC", resolveSortOrder("DeSc"))

	// Всё, кроме desc, трактуется как ASC
	require.Equal(t, "ASC", resolveSortOrder("asc"))
	require.Equal(t, "ASC", resolveSortOrder(""))
	require.Equal(t, "ASC", resolveSortOrder("descending"))
	require.Equal(t, "ASC", resolveSortOrder("random"))
}

func TestBuildListFilter_Empty(t *testing.T) {
	where, args := buildListFilter(&usecase.ListProductsReq{IncludeDeleted: true})

	require.Empty(t, where)
	require.Empty(t, args)
}

func TestBuildListFilter_HidesDeletedByDefault(t *testing.T) {
	where, args := buildListFilter(&usecase.ListProductsReq{})

	require.Equal(t, " WHERE is_deleted = FALSE", where)
	require.Empty(t, args)
}

func TestBuildListFilter_SearchUsesSingleArg(t *testing.T) {
	where, args := buildListFilter(&usecase.ListProductsReq{
		IncludeDeleted: true,
		Search:         "laptop",
	})

	require.Equal(t, " WHERE (name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1 OR manufacturer ILIKE $1)", where)
	require.Equal(t, []any{"%laptop%"}, args)
}

func TestBuildListFilter_AllClauses(t *testing.T) {
	minPrice := int64(1000)
	maxPrice := int64(500000)
	isActive := true

	where, args := buildListFilter(&usecase.ListProductsReq{
		Search:        "phone",
		Category:      "electronics",
		MinPriceCents: &minPrice,
		MaxPriceCents: &maxPrice,
		IsActive:      &isActive,
	})

	require.Equal(t,
		" WHERE is_deleted = FALSE"+
			" AND (name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1 OR manufacturer ILIKE $1)"+
			" AND category = $2"+
			" AND price_cents >= $3"+
			" AND price_cents <= $4"+
			" AND is_active = $5",
		where,
	)
	require.Equal(t, []any{"%phone%", "electronics", minPrice, maxPrice, isActive}, args)
}
