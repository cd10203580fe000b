package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrNameRequired):
		return http.StatusBadRequest, e.ErrNameRequired.Error()
	case errors.Is(err, e.ErrNameTooLong):
		return http.StatusBadRequest, e.ErrNameTooLong.Error()
	case errors.Is(err, e.ErrDescriptionRequired):
		return http.StatusBadRequest, e.ErrDescriptionRequired.Error()
	case errors.Is(err, e.ErrDescriptionTooLong):
		return http.StatusBadRequest, e.ErrDescriptionTooLong.Error()
	case errors.Is(err, e.ErrCategoryRequired):
		return http.StatusBadRequest, e.ErrCategoryRequired.Error()
	case errors.Is(err, e.ErrCategoryTooLong):
		return http.StatusBadRequest, e.ErrCategoryTooLong.Error()
	case errors.Is(err, e.ErrManufacturerTooLong):
		return http.StatusBadRequest, e.ErrManufacturerTooLong.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrPriceOutOfRange):
		return http.StatusBadRequest, e.ErrPriceOutOfRange.Error()
	case errors.Is(err, e.ErrNegativeStock):
		return http.StatusBadRequest, e.ErrNegativeStock.Error()
	case errors.Is(err, e.ErrIDMismatch):
		return http.StatusBadRequest, e.ErrIDMismatch.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrProductConflict):
		return http.StatusConflict, e.ErrProductConflict.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePriceCents переводит цену из decimal в копейки.
// Цены с более чем двумя знаками после запятой отклоняются,
// проверка диапазона выполняется уровнем usecase.
func parsePriceCents(price decimal.Decimal) (int64, error) {
	cents := price.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, e.ErrPricePrecision
	}

	return cents.IntPart(), nil
}

// parseID извлекает числовой ID товара из пути запроса.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	return id, nil
}

// parseBoolQuery читает булев query-параметр, отсутствие трактуется как false.
func parseBoolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	return value, nil
}

// parseListQuery собирает параметры листинга из query-строки.
// Отсутствующие параметры получают значения по умолчанию в Normalize.
func parseListQuery(r *http.Request) (*usecase.ListProductsReq, error) {
	q := r.URL.Query()

	req := &usecase.ListProductsReq{
		SortColumn: q.Get("sortColumn"),
		SortOrder:  q.Get("sortOrder"),
		Search:     q.Get("search"),
		Category:   q.Get("category"),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
		}
		req.Page = page
	}

	if raw := q.Get("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
		}
		req.PageSize = pageSize
	}

	if raw := q.Get("minPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidPrice)
		}

		cents, err := parsePriceCents(price)
		if err != nil {
			return nil, err
		}
		req.MinPriceCents = &cents
	}

	if raw := q.Get("maxPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidPrice)
		}

		cents, err := parsePriceCents(price)
		if err != nil {
			return nil, err
		}
		req.MaxPriceCents = &cents
	}

	if raw := q.Get("isActive"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
		}
		req.IsActive = &isActive
	}

	includeDeleted, err := parseBoolQuery(r, "includeDeleted")
	if err != nil {
		return nil, err
	}
	req.IncludeDeleted = includeDeleted

	req.Normalize()

	return req, nil
}
