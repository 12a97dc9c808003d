package cart

import (
	"errors"
	"fmt"
)

// Operation categories. Every error returned by a Store operation matches exactly
// one of these with errors.Is, and also matches its cause.
var (
	ErrAddFailed    = errors.New("product addition failed")
	ErrRemoveFailed = errors.New("product removal failed")
	ErrUpdateFailed = errors.New("quantity change failed")
	ErrOutOfStock   = errors.New("requested quantity out of stock")
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrInvalidAmount    = errors.New("amount must be at least 1")
	ErrMissingStock     = errors.New("stock not reported")
	ErrCorruptCart      = errors.New("persisted cart is not valid JSON")
	ErrPersistFailed    = errors.New("cart could not be persisted")
)

func failed(category, cause error) error {
	return fmt.Errorf("%w: %w", category, cause)
}

func outOfStock(productID int64, available, requested int) error {
	return fmt.Errorf("%w: product %d has %d available, requested %d", ErrOutOfStock, productID, available, requested)
}
