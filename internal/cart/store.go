package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/storage"
)

const DefaultKey = "@RocketShoes:cart"

// Catalog is the read-only product/stock API the store checks against
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetStock(ctx context.Context, id int64) (*domain.Stock, error)
}

// Store owns one shopper's cart. Operations are not mutually exclusive: each one
// works on the snapshot it started with and the last successful write wins.
type Store struct {
	catalog   Catalog
	kv        storage.KV
	publisher events.Publisher
	key       string
	strictAdd bool

	// commitMu orders write+swap pairs so storage and memory end on the same cart
	commitMu sync.Mutex
	mu       sync.RWMutex
	cart     domain.Cart
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithStrictAddStockCheck makes AddProduct reject products with no unit in stock.
// By default only negative stock is rejected when a product enters the cart.
func WithStrictAddStockCheck() Option {
	return func(s *Store) {
		s.strictAdd = true
	}
}

func New(catalog Catalog, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		catalog:   catalog,
		kv:        kv,
		publisher: events.Noop{},
		key:       DefaultKey,
		cart:      domain.Cart{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init restores the cart persisted under the store key. A missing key leaves the
// cart empty.
func (s *Store) Init(ctx context.Context) error {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.replace(domain.Cart{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	var restored domain.Cart
	if len(data) > 0 {
		if err := json.Unmarshal(data, &restored); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptCart, err)
		}
	}
	if restored == nil {
		restored = domain.Cart{}
	}

	s.replace(restored)
	logger.FromContext(ctx).WithField("items", len(restored)).Debug("cart restored")
	return nil
}

// Cart returns a copy of the current cart
func (s *Store) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

func (s *Store) AddProduct(ctx context.Context, productID int64) error {
	current := s.Cart()

	if existing, ok := current.Find(productID); ok {
		return s.UpdateProductAmount(ctx, productID, existing.Amount+1)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return s.reject(ctx, ErrAddFailed, productID, err)
	}
	if product == nil {
		return s.reject(ctx, ErrAddFailed, productID, ErrProductNotFound)
	}

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return s.reject(ctx, ErrAddFailed, productID, err)
	}
	if stock == nil {
		return s.reject(ctx, ErrAddFailed, productID, ErrMissingStock)
	}

	// Only negative stock is rejected here, unlike UpdateProductAmount which
	// compares against the requested amount. Kept as the storefront behaves.
	if stock.Amount < 0 || (s.strictAdd && stock.Amount < 1) {
		return s.reject(ctx, nil, productID, outOfStock(productID, stock.Amount, 1))
	}

	added := *product
	added.Amount = 1
	if err := s.commit(ctx, events.OpAdd, productID, current.Append(added)); err != nil {
		return s.reject(ctx, ErrAddFailed, productID, err)
	}
	return nil
}

func (s *Store) RemoveProduct(ctx context.Context, productID int64) error {
	current := s.Cart()

	if !current.Contains(productID) {
		return s.reject(ctx, ErrRemoveFailed, productID, ErrProductNotInCart)
	}

	if err := s.commit(ctx, events.OpRemove, productID, current.Without(productID)); err != nil {
		return s.reject(ctx, ErrRemoveFailed, productID, err)
	}
	return nil
}

func (s *Store) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount < 1 {
		return s.reject(ctx, ErrUpdateFailed, productID, ErrInvalidAmount)
	}

	current := s.Cart()

	stock, err := s.catalog.GetStock(ctx, productID)
	if err != nil {
		return s.reject(ctx, ErrUpdateFailed, productID, err)
	}
	if stock == nil {
		return s.reject(ctx, ErrUpdateFailed, productID, ErrMissingStock)
	}

	if stock.Amount < amount {
		return s.reject(ctx, nil, productID, outOfStock(productID, stock.Amount, amount))
	}

	if err := s.commit(ctx, events.OpUpdate, productID, current.WithAmount(productID, amount)); err != nil {
		return s.reject(ctx, ErrUpdateFailed, productID, err)
	}
	return nil
}

// commit persists next and only then swaps it in. Concurrent commits are
// serialized, so the last one to write is also the last one swapped in.
func (s *Store) commit(ctx context.Context, op events.Op, productID int64, next domain.Cart) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	s.commitMu.Lock()
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.commitMu.Unlock()
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	s.replace(next)
	s.commitMu.Unlock()

	s.publish(ctx, op, productID, next)
	return nil
}

func (s *Store) replace(next domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = next
}

func (s *Store) publish(ctx context.Context, op events.Op, productID int64, next domain.Cart) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	if err := s.publisher.CartUpdated(pubCtx, events.NewCartUpdated(op, productID, next)); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("product_id", productID).Warn("cart event publish failed")
	}
}

// reject logs the cause and returns it wrapped in category. A nil category
// means err already carries one.
func (s *Store) reject(ctx context.Context, category error, productID int64, err error) error {
	if category != nil {
		err = failed(category, err)
	}
	logger.FromContext(ctx).WithError(err).WithField("product_id", productID).Info("cart operation rejected")
	return err
}
