package events

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update_amount"
)

// CartUpdated is emitted after a cart mutation has been persisted
type CartUpdated struct {
	EventID    string      `json:"event_id"`
	Op         Op          `json:"op"`
	ProductID  int64       `json:"product_id"`
	Cart       domain.Cart `json:"cart"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewCartUpdated(op Op, productID int64, cart domain.Cart) CartUpdated {
	return CartUpdated{
		EventID:    uuid.New().String(),
		Op:         op,
		ProductID:  productID,
		Cart:       cart.Clone(),
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	CartUpdated(ctx context.Context, event CartUpdated) error
	Close() error
}

// Noop drops every event, used when no broker is configured
type Noop struct{}

func (Noop) CartUpdated(context.Context, CartUpdated) error { return nil }

func (Noop) Close() error { return nil }
