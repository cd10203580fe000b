package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки репозиториев
	ErrNoRowsUpdated = fmt.Errorf("no rows updated")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrNameRequired        = fmt.Errorf("product name is required")
	ErrNameTooLong         = fmt.Errorf("product name must be at most 100 characters")
	ErrDescriptionRequired = fmt.Errorf("product description is required")
	ErrDescriptionTooLong  = fmt.Errorf("product description must be at most 500 characters")
	ErrCategoryRequired    = fmt.Errorf("product category is required")
	ErrCategoryTooLong     = fmt.Errorf("product category must be at most 50 characters")
	ErrManufacturerTooLong = fmt.Errorf("product manufacturer must be at most 100 characters")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrPriceOutOfRange     = fmt.Errorf("price must be between 0.01 and 1000000")
	ErrNegativeStock       = fmt.Errorf("stock quantity must be non-negative")
	ErrIDMismatch          = fmt.Errorf("body id does not match path id")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 409 Conflict
	ErrProductConflict = fmt.Errorf("product was modified concurrently")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
