// Package notify turns cart operation errors into the short messages shown to shoppers.
package notify

import (
	"errors"

	"github.com/fjod/go_cart/storefront/internal/cart"
)

const (
	MsgOutOfStock = "Requested quantity out of stock"
	MsgAddFailed  = "Error adding product"
	MsgRemove     = "Error removing product"
	MsgUpdate     = "Error changing product quantity"
	MsgUnexpected = "Unexpected error"
)

// Message returns the notification for err, or "" when err is nil
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, cart.ErrOutOfStock):
		return MsgOutOfStock
	case errors.Is(err, cart.ErrAddFailed):
		return MsgAddFailed
	case errors.Is(err, cart.ErrRemoveFailed):
		return MsgRemove
	case errors.Is(err, cart.ErrUpdateFailed):
		return MsgUpdate
	default:
		return MsgUnexpected
	}
}
